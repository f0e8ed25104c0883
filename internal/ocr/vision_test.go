package ocr

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("Vision", func() {
	var (
		server *ghttp.Server
		vision *Vision
		upload []byte
	)

	BeforeEach(func() {
		server = ghttp.NewServer()

		var err error
		vision, err = NewVision("test-key", server.URL())
		Expect(err).NotTo(HaveOccurred())

		var buf bytes.Buffer
		Expect(png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4)))).To(Succeed())
		upload = buf.Bytes()
	})

	AfterEach(func() {
		server.Close()
	})

	It("requires an api key", func() {
		_, err := NewVision("", "")
		Expect(err).To(HaveOccurred())
	})

	When("the API annotates the image", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("POST", "/v1/images:annotate", "key=test-key"),
				ghttp.VerifyContentType("application/json"),
				ghttp.RespondWithJSONEncoded(http.StatusOK, map[string]any{
					"responses": []map[string]any{{
						"textAnnotations": []map[string]any{
							{"description": "TOKO SUMBER REJEKI\nTotal 50.000"},
							{"description": "TOKO"},
						},
					}},
				}),
			))
		})

		It("returns the full-text annotation", func() {
			text, err := vision.RecognizeText(context.Background(), upload)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("TOKO SUMBER REJEKI\nTotal 50.000"))
		})
	})

	When("the API reports a per-image error", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWithJSONEncoded(http.StatusOK, map[string]any{
				"responses": []map[string]any{{
					"error": map[string]any{"message": "image too large"},
				}},
			}))
		})

		It("surfaces the message", func() {
			_, err := vision.RecognizeText(context.Background(), upload)
			Expect(err).To(MatchError(ContainSubstring("image too large")))
		})
	})

	When("the API finds no text", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWithJSONEncoded(http.StatusOK, map[string]any{
				"responses": []map[string]any{{}},
			}))
		})

		It("returns empty text without an error", func() {
			text, err := vision.RecognizeText(context.Background(), upload)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(BeEmpty())
		})
	})

	When("the API rejects the request outright", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusForbidden, `{"error":"quota exceeded"}`))
		})

		It("reports the status", func() {
			_, err := vision.RecognizeText(context.Background(), upload)
			Expect(err).To(MatchError(ContainSubstring("status 403")))
		})
	})

	It("rejects uploads it cannot decode", func() {
		_, err := vision.RecognizeText(context.Background(), []byte("not an image"))
		Expect(err).To(HaveOccurred())
		Expect(server.ReceivedRequests()).To(BeEmpty())
	})
})
