package extract

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ExtractDate", func() {
	var (
		text  string
		date  time.Time
		found bool
	)

	JustBeforeEach(func() {
		date, found = ExtractDate(text)
	})

	When("the receipt carries a slash-separated numeric date", func() {
		BeforeEach(func() {
			text = "TOKO SUMBER REJEKI\n12/03/2024 08:15\nTotal 50.000"
		})

		It("reads it day-first", func() {
			Expect(found).To(BeTrue())
			Expect(date).To(Equal(time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("the first field cannot be a day", func() {
		BeforeEach(func() {
			text = "Date: 03/25/2024"
		})

		It("swaps to month-first", func() {
			Expect(date).To(Equal(time.Date(2024, time.March, 25, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("the date uses an Indonesian month name", func() {
		BeforeEach(func() {
			text = "Tanggal: 30 Okt 2025"
		})

		It("resolves the month", func() {
			Expect(date).To(Equal(time.Date(2025, time.October, 30, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("the year has only two digits", func() {
		BeforeEach(func() {
			text = "10 May 19"
		})

		It("expands it into the 2000s", func() {
			Expect(date).To(Equal(time.Date(2019, time.May, 10, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("the date is written ISO style", func() {
		BeforeEach(func() {
			text = "2024-11-21 13:37"
		})

		It("reads year-first", func() {
			Expect(date).To(Equal(time.Date(2024, time.November, 21, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("the only date is far in the future", func() {
		BeforeEach(func() {
			text = "Berlaku hingga 01/01/2030"
		})

		It("rejects it", func() {
			Expect(found).To(BeFalse())
		})
	})

	When("the only date is impossibly old", func() {
		BeforeEach(func() {
			text = "Est. 01/01/1995"
		})

		It("rejects it", func() {
			Expect(found).To(BeFalse())
		})
	})

	When("the digits form no real calendar date", func() {
		BeforeEach(func() {
			text = "31/02/2024"
		})

		It("rejects the rollover", func() {
			Expect(found).To(BeFalse())
		})
	})

	When("no date appears at all", func() {
		BeforeEach(func() {
			text = "Nasi Goreng 25.000\nTotal 25.000"
		})

		It("reports absence", func() {
			Expect(found).To(BeFalse())
		})
	})
})
