package finance

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BoltStore", func() {
	var store *BoltStore

	newTransaction := func(id, userID, categoryID string, amount int64, date time.Time) *Transaction {
		return &Transaction{
			ID:              id,
			UserID:          userID,
			Type:            TypeExpense,
			Amount:          amount,
			CategoryID:      categoryID,
			TransactionDate: date,
			CreatedAt:       date,
			UpdatedAt:       date,
		}
	}

	BeforeEach(func() {
		var err error
		store, err = NewBoltStore(filepath.Join(GinkgoT().TempDir(), "finance.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(store.Close()).To(Succeed())
	})

	Describe("transactions", func() {
		var base time.Time

		BeforeEach(func() {
			base = time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
			Expect(store.SaveTransaction(newTransaction("t1", "user-123", "", 25000, base))).To(Succeed())
			Expect(store.SaveTransaction(newTransaction("t2", "user-123", "", 50000, base.AddDate(0, 0, 2)))).To(Succeed())
			Expect(store.SaveTransaction(newTransaction("t3", "other", "", 99999, base))).To(Succeed())
		})

		It("round-trips a transaction", func() {
			t, err := store.GetTransaction("user-123", "t1")
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Amount).To(Equal(int64(25000)))
			Expect(t.TransactionDate.Equal(base)).To(BeTrue())
		})

		It("scopes reads to the owning user", func() {
			_, err := store.GetTransaction("user-123", "t3")
			Expect(err).To(MatchError(ErrNotFound))
		})

		It("lists newest first with paging", func() {
			list, err := store.ListTransactions("user-123", 1, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].ID).To(Equal("t2"))

			rest, err := store.ListTransactions("user-123", 1, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(rest[0].ID).To(Equal("t1"))

			none, err := store.ListTransactions("user-123", 10, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(none).To(BeEmpty())
		})

		It("treats limit zero as unbounded", func() {
			list, err := store.ListTransactions("user-123", 0, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(2))
		})

		It("updates in place on re-save", func() {
			t, err := store.GetTransaction("user-123", "t1")
			Expect(err).NotTo(HaveOccurred())
			t.Amount = 30000
			Expect(store.SaveTransaction(t)).To(Succeed())

			again, err := store.GetTransaction("user-123", "t1")
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Amount).To(Equal(int64(30000)))
		})

		It("deletes only the user's own rows", func() {
			Expect(store.DeleteTransaction("user-123", "t3")).To(MatchError(ErrNotFound))
			Expect(store.DeleteTransaction("user-123", "t1")).To(Succeed())
			_, err := store.GetTransaction("user-123", "t1")
			Expect(err).To(MatchError(ErrNotFound))
		})

		It("wipes a user's history without touching others", func() {
			Expect(store.DeleteAllTransactions("user-123")).To(Succeed())

			mine, err := store.ListTransactions("user-123", 0, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(mine).To(BeEmpty())

			theirs, err := store.ListTransactions("other", 0, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(theirs).To(HaveLen(1))
		})

		It("reassigns categories for one user only", func() {
			Expect(store.SaveTransaction(newTransaction("t4", "user-123", "cat-old", 1000, base))).To(Succeed())
			Expect(store.SaveTransaction(newTransaction("t5", "other", "cat-old", 1000, base))).To(Succeed())

			Expect(store.ReassignCategory("user-123", "cat-old", "cat-new")).To(Succeed())

			mine, err := store.GetTransaction("user-123", "t4")
			Expect(err).NotTo(HaveOccurred())
			Expect(mine.CategoryID).To(Equal("cat-new"))

			theirs, err := store.GetTransaction("other", "t5")
			Expect(err).NotTo(HaveOccurred())
			Expect(theirs.CategoryID).To(Equal("cat-old"))
		})
	})

	Describe("categories", func() {
		BeforeEach(func() {
			Expect(store.SaveCategory(&Category{ID: "c1", Name: "Transportasi", IsDefault: true})).To(Succeed())
			Expect(store.SaveCategory(&Category{ID: "c2", Name: "Makanan & Minuman", IsDefault: true})).To(Succeed())
			Expect(store.SaveCategory(&Category{ID: "c3", UserID: "user-123", Name: "Kopi"})).To(Succeed())
			Expect(store.SaveCategory(&Category{ID: "c4", UserID: "other", Name: "Mancing"})).To(Succeed())
		})

		It("lists defaults first, then the user's custom ones by name", func() {
			list, err := store.ListCategories("user-123")
			Expect(err).NotTo(HaveOccurred())

			names := make([]string, len(list))
			for i, c := range list {
				names[i] = c.Name
			}
			Expect(names).To(Equal([]string{"Makanan & Minuman", "Transportasi", "Kopi"}))
		})

		It("refuses to delete another user's category", func() {
			Expect(store.DeleteCategory("user-123", "c4")).To(MatchError(ErrNotFound))
		})

		It("deletes the user's own category", func() {
			Expect(store.DeleteCategory("user-123", "c3")).To(Succeed())
			_, err := store.GetCategory("c3")
			Expect(err).To(MatchError(ErrNotFound))
		})
	})
})
