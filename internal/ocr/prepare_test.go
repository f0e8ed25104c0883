package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func testImageBytes(encode func(*bytes.Buffer, image.Image) error) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, 4, color.Black)
	}
	var buf bytes.Buffer
	Expect(encode(&buf, img)).To(Succeed())
	return buf.Bytes()
}

var _ = Describe("prepareImage", func() {
	It("passes PNG uploads through as PNG", func() {
		data := testImageBytes(func(buf *bytes.Buffer, img image.Image) error {
			return png.Encode(buf, img)
		})

		prepared, err := prepareImage(data)
		Expect(err).NotTo(HaveOccurred())

		decoded, format, err := image.Decode(bytes.NewReader(prepared))
		Expect(err).NotTo(HaveOccurred())
		Expect(format).To(Equal("png"))
		Expect(decoded.Bounds().Dx()).To(Equal(8))
	})

	It("converts JPEG uploads to PNG", func() {
		data := testImageBytes(func(buf *bytes.Buffer, img image.Image) error {
			return jpeg.Encode(buf, img, nil)
		})

		prepared, err := prepareImage(data)
		Expect(err).NotTo(HaveOccurred())

		_, format, err := image.Decode(bytes.NewReader(prepared))
		Expect(err).NotTo(HaveOccurred())
		Expect(format).To(Equal("png"))
	})

	It("rejects unrecognizable uploads with a helpful message", func() {
		_, err := prepareImage([]byte("definitely not an image"))
		Expect(err).To(MatchError(ContainSubstring("unsupported image format")))
	})
})

var _ = Describe("enhanceForRecognition", func() {
	It("produces a decodable grayscale PNG", func() {
		data := testImageBytes(func(buf *bytes.Buffer, img image.Image) error {
			return png.Encode(buf, img)
		})

		enhanced, err := enhanceForRecognition(data)
		Expect(err).NotTo(HaveOccurred())

		img, err := png.Decode(bytes.NewReader(enhanced))
		Expect(err).NotTo(HaveOccurred())
		r, g, b, _ := img.At(2, 2).RGBA()
		Expect(g).To(Equal(r))
		Expect(b).To(Equal(r))
	})
})

var _ = Describe("format sniffing", func() {
	It("recognizes PDF headers", func() {
		Expect(isPDF([]byte("%PDF-1.4 rest"))).To(BeTrue())
		Expect(isPDF([]byte("PNG"))).To(BeFalse())
	})

	It("recognizes HEIC ftyp brands", func() {
		header := append([]byte{0, 0, 0, 24}, []byte("ftypheic")...)
		Expect(isHEIC(header)).To(BeTrue())

		miaf := append([]byte{0, 0, 0, 24}, []byte("ftypmif1")...)
		Expect(isHEIC(miaf)).To(BeTrue())

		mp4 := append([]byte{0, 0, 0, 24}, []byte("ftypisom")...)
		Expect(isHEIC(mp4)).To(BeFalse())
		Expect(isHEIC([]byte("short"))).To(BeFalse())
	})
})
