package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBarcodes(t *testing.T) {
	require.Equal(t, []string{"1", "2"}, NormalizeBarcodes([]string{" 1", "", "2", "1"}))
	require.True(t, BarcodesIntersect([]string{"1", "2"}, []string{"3", "2"}))
	require.False(t, BarcodesIntersect([]string{"1"}, nil))

	union := UnionBarcodes([]string{"1", "2"}, []string{"2", "3"})
	require.Equal(t, []string{"1", "2", "3"}, union)
	require.Equal(t, union, UnionBarcodes(union, []string{"3"}))
}

func TestFeedItem_ConflictsWith(t *testing.T) {
	a := NewFeedItem("1", []string{"111"}, 1, 100, "Аспирин")

	require.False(t, a.ConflictsWith(a))
	require.True(t, a.ConflictsWith(NewFeedItem("2", []string{"111"}, 1, 100, "Аспирин")))
	require.True(t, a.ConflictsWith(NewFeedItem("1", []string{"111", "5"}, 1, 100, "Аспирин С")))
	require.False(t, a.ConflictsWith(NewFeedItem("2", []string{"222"}, 1, 100, "Другое")))
}

func TestShopProduct_ApplyFeed(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	product := &CatalogProduct{ID: 10, Name: "Аспирин", Slug: "aspirin"}
	sp := NewShopProductFromFeed(1, 77, product, NewFeedItem("a", []string{"111"}, 5, 20000, "x"), now)

	sp.ApplyFeed(NewFeedItem("a", []string{"111"}, 5, 20000, "x"), now.Add(time.Hour))
	require.Empty(t, sp.OldPrices)
	require.Equal(t, int64(0), sp.OldPrice)

	sp.ApplyFeed(NewFeedItem("a", []string{"112"}, -3, 17000, "x"), now.Add(2*time.Hour))
	require.Equal(t, 0, sp.Available)
	require.Equal(t, int64(17000), sp.Price)
	require.Equal(t, int64(20000), sp.OldPrice)
	require.Equal(t, 15, sp.DiscountedPercent)
	require.Equal(t, []PriceHistoryItem{{Price: 20000, CreatedAt: now.Add(2 * time.Hour)}}, sp.OldPrices)
	require.Equal(t, []string{"111", "112"}, sp.Barcode)
}

func TestSyncIntersect_Append(t *testing.T) {
	now := time.Now()
	bag := NewSyncIntersect(1, NewFeedItem("a", []string{"111"}, 1, 1, "A"), now)

	require.False(t, bag.Append(NewFeedItem("a", []string{"111"}, 1, 1, "A"), now))
	require.True(t, bag.Append(NewFeedItem("b", []string{"111", "222"}, 1, 1, "B"), now))
	require.Len(t, bag.Products, 2)
	require.Equal(t, []string{"111", "222"}, bag.Barcodes())
}

func TestOrder_RecountTotal(t *testing.T) {
	o := &Order{
		GiftCertificateChargedValue: 300,
		Products:                    []OrderProduct{{ID: 1, TotalPrice: 1500}, {ID: 2, TotalPrice: 700}},
	}
	o.RecountTotal()
	require.Equal(t, int64(1900), o.TotalPrice)

	p, ok := o.FindProduct(2)
	require.True(t, ok)
	require.Equal(t, int64(700), p.TotalPrice)
}

func TestCart_FindProduct(t *testing.T) {
	sp := int64(5)
	other := int64(6)
	c := &Cart{Products: []CartProduct{{ID: 1, ProductID: 10}, {ID: 2, ProductID: 10, ShopProductID: &sp}}}

	line, ok := c.FindProduct(10, nil)
	require.True(t, ok)
	require.Equal(t, int64(1), line.ID)

	line, ok = c.FindProduct(10, &sp)
	require.True(t, ok)
	require.Equal(t, int64(2), line.ID)

	_, ok = c.FindProduct(10, &other)
	require.False(t, ok)
}

func TestPromo_IsActive(t *testing.T) {
	now := time.Now()
	end := now.Add(time.Hour)

	require.True(t, Promo{StartsAt: now.Add(-time.Hour)}.IsActive(now))
	require.True(t, Promo{StartsAt: now.Add(-time.Hour), EndsAt: &end}.IsActive(now))
	require.False(t, Promo{StartsAt: now.Add(time.Minute)}.IsActive(now))
	require.False(t, Promo{StartsAt: now.Add(-2 * time.Hour), EndsAt: &end}.IsActive(end))
}
