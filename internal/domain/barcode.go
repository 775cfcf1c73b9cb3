package domain

import "strings"

// NormalizeBarcodes убирает пустые значения и дубликаты, сохраняя порядок.
func NormalizeBarcodes(barcodes []string) []string {
	res := make([]string, 0, len(barcodes))
	seen := make(map[string]struct{}, len(barcodes))
	for _, b := range barcodes {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		res = append(res, b)
	}

	return res
}

// BarcodesIntersect сообщает, есть ли у двух наборов хотя бы один общий штрихкод.
func BarcodesIntersect(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}

	set := make(map[string]struct{}, len(a))
	for _, x := range a {
		set[x] = struct{}{}
	}
	for _, y := range b {
		if _, ok := set[y]; ok {
			return true
		}
	}

	return false
}

// UnionBarcodes объединяет наборы. Порядок существующих штрихкодов сохраняется,
// новые добавляются в конец. Повторное добавление не меняет набор.
func UnionBarcodes(existing, incoming []string) []string {
	return NormalizeBarcodes(append(append([]string{}, existing...), incoming...))
}
