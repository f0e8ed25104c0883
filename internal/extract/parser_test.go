package extract

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/financetheory/api/internal/ocr"
)

type stubEngine struct {
	text string
	err  error
}

func (e *stubEngine) RecognizeText(_ context.Context, _ []byte) (string, error) {
	return e.text, e.err
}

func (e *stubEngine) Close() error { return nil }

var _ = Describe("Parser", func() {
	var (
		engine  *stubEngine
		gateway *ocr.Gateway
		parser  *Parser
		result  *Result
	)

	BeforeEach(func() {
		engine = &stubEngine{}
		gateway = ocr.NewGateway(ocr.ProviderLocalEngine)
		gateway.Register(ocr.ProviderLocalEngine, engine)
		parser = NewParser(gateway)
	})

	Describe("ParseImage", func() {
		var provider string

		BeforeEach(func() {
			provider = ""
		})

		JustBeforeEach(func() {
			result = parser.ParseImage(context.Background(), []byte("fake-image"), provider, "receipts/local/1.jpg")
		})

		When("recognition succeeds on a readable receipt", func() {
			BeforeEach(func() {
				engine.text = "TOKO SUMBER REJEKI\n12/03/2024\nNasi Goreng x2 25.000\nTotal 25.000"
			})

			It("extracts every field", func() {
				Expect(result.Success).To(BeTrue())
				Expect(result.Amount).To(HaveValue(Equal(int64(25000))))
				Expect(result.MerchantName).To(Equal("TOKO SUMBER REJEKI"))
				Expect(*result.TransactionDate).To(Equal(time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC)))
				Expect(result.Items).To(HaveLen(1))
				Expect(result.Provider).To(Equal(ocr.ProviderLocalEngine))
				Expect(result.ReceiptURL).To(Equal("receipts/local/1.jpg"))
				Expect(result.Message).To(Equal("data extracted successfully"))
				Expect(result.Confidence).To(Equal(0.7))
			})

			It("is idempotent for identical inputs", func() {
				again := parser.ParseImage(context.Background(), []byte("fake-image"), provider, "receipts/local/1.jpg")
				Expect(again).To(Equal(result))
			})
		})

		When("the requested provider is not configured", func() {
			BeforeEach(func() {
				provider = ocr.ProviderCloudVision
			})

			It("returns an unsuccessful result instead of an error", func() {
				Expect(result.Success).To(BeFalse())
				Expect(result.Provider).To(Equal(ocr.ProviderCloudVision))
				Expect(result.Message).To(ContainSubstring("unavailable"))
				Expect(result.Amount).To(BeNil())
				Expect(result.Items).To(BeEmpty())
			})
		})

		When("the engine fails on the image", func() {
			BeforeEach(func() {
				engine.err = errors.New("unreadable image data")
			})

			It("reports the failure with empty fields", func() {
				Expect(result.Success).To(BeFalse())
				Expect(result.Message).NotTo(BeEmpty())
				Expect(result.Amount).To(BeNil())
				Expect(result.MerchantName).To(BeEmpty())
				Expect(result.TransactionDate).To(BeNil())
				Expect(result.Items).To(BeEmpty())
				Expect(result.Confidence).To(BeZero())
			})
		})

		When("the engine produces only whitespace", func() {
			BeforeEach(func() {
				engine.text = "  \n\t\n"
			})

			It("reports that no text was found", func() {
				Expect(result.Success).To(BeFalse())
				Expect(result.Message).To(Equal("could not extract text from image"))
			})
		})
	})

	Describe("FromText", func() {
		When("no amount can be found", func() {
			It("flags the result for manual review", func() {
				result = parser.FromText("TOKO SUMBER REJEKI\nTerima kasih", ocr.ProviderLocalEngine, "")
				Expect(result.Success).To(BeTrue())
				Expect(result.Amount).To(BeNil())
				Expect(result.Confidence).To(BeZero())
				Expect(result.Message).To(Equal("could not detect a total amount, review before saving"))
			})
		})

		When("an amount is found but no items", func() {
			It("notes the unclear receipt", func() {
				result = parser.FromText("Total 50.000", ocr.ProviderLocalEngine, "")
				Expect(result.Amount).To(HaveValue(Equal(int64(50000))))
				Expect(result.Items).To(BeEmpty())
				Expect(result.Message).To(Equal("items not detected, receipt unclear"))
			})
		})

		When("the text came from a cloud provider", func() {
			It("rates confidence higher", func() {
				result = parser.FromText("Total 50.000", ocr.ProviderCloudVision, "")
				Expect(result.Confidence).To(Equal(0.9))
			})
		})

		It("truncates the echoed raw text", func() {
			long := "Total 50.000\n"
			for len(long) < 2000 {
				long += "Nasi Goreng 25.000\n"
			}
			result = parser.FromText(long, ocr.ProviderLocalEngine, "")
			Expect(len(result.RawText)).To(Equal(500))
		})
	})
})
