package usecase

import (
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/DRSN-tech/marketplace-sync/internal/domain"
)

const (
	diffKeyStatusID        = "statusId"
	diffKeyGiftCertificate = "giftCertificateChargedValue"
	diffKeyProducts        = "products"

	diffKeyShopProductID  = "shopProductId"
	diffKeyAmount         = "amount"
	diffKeyCustomDiscount = "customDiscount"
	diffKeyPrice          = "price"

	newProductKeyPrefix = "new-"
)

// DiffSnapshots сравнивает два снимка и раскладывает разницу на added/updated/deleted.
// Вложенные объекты сравниваются рекурсивно, удалённые ключи сохраняют прежнее значение.
func DiffSnapshots(prev, next map[string]any) domain.OrderDiff {
	added, updated, removed := diffMaps(prev, next)
	return domain.OrderDiff{Added: added, Updated: updated, Removed: removed}
}

func diffMaps(prev, next map[string]any) (added, updated, removed map[string]any) {
	added, updated, removed = map[string]any{}, map[string]any{}, map[string]any{}

	for k, nv := range next {
		pv, ok := prev[k]
		if !ok {
			added[k] = nv
			continue
		}

		pm, prevIsMap := pv.(map[string]any)
		nm, nextIsMap := nv.(map[string]any)
		if prevIsMap && nextIsMap {
			a, u, r := diffMaps(pm, nm)
			if len(a) > 0 {
				added[k] = a
			}
			if len(u) > 0 {
				updated[k] = u
			}
			if len(r) > 0 {
				removed[k] = r
			}
			continue
		}

		if !reflect.DeepEqual(pv, nv) {
			updated[k] = nv
		}
	}

	for k, pv := range prev {
		if _, ok := next[k]; !ok {
			removed[k] = pv
		}
	}

	return added, updated, removed
}

// ChangedProductKeys возвращает ключи строк заказа, которые нужно пересчитать:
// новые строки считаются обновлёнными.
func ChangedProductKeys(diff domain.OrderDiff) []string {
	keys := map[string]struct{}{}
	for _, section := range []map[string]any{diff.Added, diff.Updated} {
		products, ok := section[diffKeyProducts].(map[string]any)
		if !ok {
			continue
		}
		for k := range products {
			keys[k] = struct{}{}
		}
	}

	res := make([]string, 0, len(keys))
	for k := range keys {
		res = append(res, k)
	}
	sort.Strings(res)

	return res
}

// RemovedProductIDs возвращает идентификаторы удалённых строк заказа.
func RemovedProductIDs(diff domain.OrderDiff) []int64 {
	products, ok := diff.Removed[diffKeyProducts].(map[string]any)
	if !ok {
		return nil
	}

	var res []int64
	for k, v := range products {
		// удалённое поле внутри существующей строки не означает удаление строки
		if _, isLine := v.(map[string]any); !isLine {
			continue
		}
		if id, ok := parseProductKey(k); ok {
			res = append(res, id)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })

	return res
}

func snapshotOrder(order *domain.Order) map[string]any {
	products := make(map[string]any, len(order.Products))
	for _, p := range order.Products {
		products[productKey(p.ID)] = snapshotProduct(p.ShopProductID, p.Amount, p.CustomDiscount, p.Price)
	}

	return map[string]any{
		diffKeyStatusID:        order.StatusID,
		diffKeyGiftCertificate: order.GiftCertificateChargedValue,
		diffKeyProducts:        products,
	}
}

func snapshotProduct(shopProductID int64, amount, customDiscount int, price int64) map[string]any {
	return map[string]any{
		diffKeyShopProductID:  shopProductID,
		diffKeyAmount:         amount,
		diffKeyCustomDiscount: customDiscount,
		diffKeyPrice:          price,
	}
}

func productKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

func newProductKey(idx int) string {
	return newProductKeyPrefix + strconv.Itoa(idx)
}

func parseProductKey(key string) (int64, bool) {
	if strings.HasPrefix(key, newProductKeyPrefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return 0, false
	}

	return id, true
}

func parseNewProductKey(key string) (int, bool) {
	if !strings.HasPrefix(key, newProductKeyPrefix) {
		return 0, false
	}
	idx, err := strconv.Atoi(strings.TrimPrefix(key, newProductKeyPrefix))
	if err != nil {
		return 0, false
	}

	return idx, true
}
