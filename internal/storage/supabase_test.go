package storage

import (
	"fmt"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("Supabase", func() {
	var (
		server *ghttp.Server
		store  *Supabase
	)

	BeforeEach(func() {
		server = ghttp.NewServer()

		var err error
		store, err = NewSupabase(server.URL(), "service-key", "receipts")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	It("requires url and service key", func() {
		_, err := NewSupabase("", "service-key", "")
		Expect(err).To(HaveOccurred())
		_, err = NewSupabase("https://example.supabase.co", "", "")
		Expect(err).To(HaveOccurred())
	})

	Describe("Save", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("POST", "/storage/v1/object/receipts/user-123/struk.jpg"),
				ghttp.VerifyHeaderKV("Authorization", "Bearer service-key"),
				ghttp.VerifyContentType("image/jpeg"),
				ghttp.VerifyBody([]byte("jpeg-bytes")),
				ghttp.RespondWith(http.StatusOK, `{"Key":"receipts/user-123/struk.jpg"}`),
			))
		})

		It("uploads and returns the public url", func() {
			url, err := store.Save("user-123/struk.jpg", []byte("jpeg-bytes"), "image/jpeg")
			Expect(err).NotTo(HaveOccurred())
			Expect(url).To(Equal(fmt.Sprintf("%s/storage/v1/object/public/receipts/user-123/struk.jpg", server.URL())))
		})
	})

	When("the bucket rejects the upload", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusForbidden, `{"message":"new row violates row-level security policy"}`))
		})

		It("reports the status and body", func() {
			_, err := store.Save("user-123/struk.jpg", []byte("x"), "image/jpeg")
			Expect(err).To(MatchError(ContainSubstring("status 403")))
			Expect(err).To(MatchError(ContainSubstring("row-level security")))
		})
	})

	Describe("Get", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("GET", "/storage/v1/object/receipts/user-123/struk.jpg"),
				ghttp.RespondWith(http.StatusOK, "jpeg-bytes"),
			))
		})

		It("downloads the object", func() {
			data, err := store.Get("user-123/struk.jpg")
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(Equal([]byte("jpeg-bytes")))
		})
	})

	Describe("Delete", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("DELETE", "/storage/v1/object/receipts/user-123/struk.jpg"),
				ghttp.RespondWith(http.StatusNoContent, nil),
			))
		})

		It("removes the object", func() {
			Expect(store.Delete("user-123/struk.jpg")).To(Succeed())
		})
	})
})
