// Package catalog holds the compiled-in storefront product table and a small
// deterministic relevance scorer used by the single-shot proxy chat endpoint.
// The primary pipeline does not use it; product mentions there come from the
// system prompt instructions.
package catalog

import (
	"sort"
	"strings"
)

// Product is one storefront catalog entry
type Product struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	URL     string   `json:"url"`
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

// Products is the fixed catalog, in display order
var Products = []Product{
	{
		ID:      "cream-cleanser",
		Name:    "Cream Cleanser",
		URL:     "https://shadeless.cn/products/cleanser",
		Summary: "Cildi kurutmadan nazikçe temizleyen, krem-köpük yapıdaki günlük temizleyici.",
		Tags:    []string{"temizleyici", "yüz temizleme", "kuru cilt", "hassas cilt", "nazik temizlik", "günlük rutin"},
	},
	{
		ID:      "soothing-toner",
		Name:    "Soothing Toner",
		URL:     "https://shadeless.cn/products/soothing-toner",
		Summary: "Temizleme sonrası cildi yatıştıran, hafif, serumu daha iyi emdirmeye yardımcı tonik.",
		Tags:    []string{"tonik", "toner", "hassasiyet", "kızarıklık", "nem", "serum öncesi"},
	},
	{
		ID:      "step1-serum",
		Name:    "Serum Step-1",
		URL:     "https://shadeless.cn/collections/3-steps-serums/products/serum-step-1",
		Summary: "İlk adım serum: doku yenileme, gözenekleri daha düzgün gösterme, tonu aydınlatma ve nem desteği.",
		Tags:    []string{"step1", "gözenek", "pürüzlü doku", "lekeler", "ton eşitsizliği", "donuk cilt", "ışıltı"},
	},
	{
		ID:      "step2-serum",
		Name:    "Serum Step-2",
		URL:     "https://shadeless.cn/collections/3-steps-serums/products/serum-step-2",
		Summary: "Ton eşitsizliği, kızarıklık, matlık ve gözenek görünümünü hedefleyen düzeltici serum.",
		Tags:    []string{"step2", "leke", "hiperpigmentasyon", "kızarıklık", "ton eşitleme", "yağ dengesi", "gözenek"},
	},
	{
		ID:      "step3-serum",
		Name:    "Serum Step-3",
		URL:     "https://shadeless.cn/collections/3-steps-serums/products/serum-step-3",
		Summary: "56% aktif içerikli yoğun serum: ince çizgi, sıkılık ve ışıltı için güçlendirilmiş bakım.",
		Tags:    []string{"step3", "anti-aging", "kırışıklık", "sıkılaşma", "kolajen", "yoğun bakım", "ışıltı", "elastikiyet"},
	},
	{
		ID:      "peptide-mask",
		Name:    "Facial Skincare Peptide Mask",
		URL:     "https://shadeless.cn/products/facial-skincare-mask",
		Summary: "Peptid bazlı maske: hızlı ışıltı, dolgunluk, nem ve daha pürüzsüz görünüm için destek.",
		Tags:    []string{"maske", "peptid", "yoğun nem", "ince çizgi", "elastikiyet", "özel gün"},
	},
	{
		ID:      "3-steps-set",
		Name:    "3-Steps Serums Set",
		URL:     "https://shadeless.cn/collections/3-steps-serums",
		Summary: "Hazırlama, düzeltme ve güçlendirme adımlarını bir arada sunan tam set.",
		Tags:    []string{"set", "tam rutin", "3 adım", "ton eşitsizliği", "yaşlanma", "lekeler", "komple bakım"},
	},
}

const maxResults = 3

// FindRelevant scores every product against the user text and returns up to
// three products with a positive score, best first. Scoring per tag: +3 when
// the full lower-cased tag occurs in the text, else +1 when any tag word
// longer than three characters occurs. Ties keep catalog order.
func FindRelevant(userMessage string) []Product {
	text := strings.ToLower(userMessage)

	type scored struct {
		product Product
		score   int
	}

	results := make([]scored, 0, len(Products))
	for _, p := range Products {
		score := 0
		for _, tag := range p.Tags {
			t := strings.ToLower(tag)
			if strings.Contains(text, t) {
				score += 3
				continue
			}
			for _, w := range strings.Fields(t) {
				if len([]rune(w)) > 3 && strings.Contains(text, w) {
					score++
					break
				}
			}
		}
		if score > 0 {
			results = append(results, scored{product: p, score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if len(results) > maxResults {
		results = results[:maxResults]
	}

	products := make([]Product, len(results))
	for i, r := range results {
		products[i] = r.product
	}
	return products
}
