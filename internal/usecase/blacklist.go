package usecase

import "github.com/DRSN-tech/marketplace-sync/internal/domain"

// FilterBlacklisted убирает из фида позиции без штрихкодов и позиции,
// хотя бы один штрихкод которых есть в чёрном списке магазина.
func FilterBlacklisted(items []domain.FeedItem, entries []domain.BlacklistEntry) []domain.FeedItem {
	blacklisted := blacklistSet(entries)

	res := make([]domain.FeedItem, 0, len(items))
	for _, item := range items {
		if isBlacklisted(item, blacklisted) {
			continue
		}
		res = append(res, item)
	}

	return res
}

func blacklistSet(entries []domain.BlacklistEntry) map[string]struct{} {
	set := make(map[string]struct{})
	for _, entry := range entries {
		for _, b := range entry.Barcode {
			set[b] = struct{}{}
		}
	}

	return set
}

func isBlacklisted(item domain.FeedItem, blacklisted map[string]struct{}) bool {
	if len(item.Barcode) == 0 {
		return true
	}
	for _, b := range item.Barcode {
		if _, ok := blacklisted[b]; ok {
			return true
		}
	}

	return false
}
