// Package settings holds the single admin-tunable configuration aggregate:
// persona prompts per mode, the moderation wordlist and the completion
// sampling parameters. At most one document exists; it is created lazily with
// defaults the first time any handler needs it.
package settings

import (
	"time"

	"bloom/internal/model/chat"
)

// Named fallback strings used by the pipeline. Kept here, next to the prompt
// defaults, so no handler carries inline literals.
const (
	// RefusalReply is returned on a moderation hit. It is produced locally,
	// never by the model, and is never persisted as an assistant turn.
	RefusalReply = "Bu tür içeriklere burada detay veremem. Lütfen kendine zarar verici veya suç teşkil eden konulardan uzak dur ve gerekirse profesyonel destek al."

	// FallbackReply replaces the assistant turn when the completion provider
	// fails; the exchange is still persisted and reported as success.
	FallbackReply = "Şu anda teknik bir sorun yaşıyorum, biraz sonra tekrar dener misin?"

	// EmptyReply is used when the provider answers with empty content
	EmptyReply = "Mesajını biraz daha detaylı yazar mısın?"

	// GenericModePrompt is the balanced-advice instruction used for an
	// unrecognized mode; unknown modes are user-suppliable and never an error.
	GenericModePrompt = "Akıllı tavsiye modu: ihtiyaca göre denge kur."
)

// Settings is the singleton configuration document
type Settings struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	SystemPrompt     string    `bson:"system_prompt" json:"system_prompt"`
	CarePrompt       string    `bson:"care_prompt" json:"care_prompt"`
	MotivationPrompt string    `bson:"motivation_prompt" json:"motivation_prompt"`
	DietPrompt       string    `bson:"diet_prompt" json:"diet_prompt"`
	Blacklist        []string  `bson:"blacklist" json:"blacklist"`
	Model            string    `bson:"model" json:"model"`
	Temperature      float64   `bson:"temperature" json:"temperature"`             // 0..2
	MaxTokens        *int      `bson:"max_tokens,omitempty" json:"max_tokens"`     // nil = provider default
	FrequencyPenalty float64   `bson:"frequency_penalty" json:"frequency_penalty"` // -2..2
	PresencePenalty  float64   `bson:"presence_penalty" json:"presence_penalty"`   // -2..2
	TopP             float64   `bson:"top_p" json:"top_p"`                         // 0..1
	MaxMessageLength int       `bson:"max_message_length" json:"max_message_length"`
	RateLimitWindow  int       `bson:"rate_limit_window" json:"rate_limit_window"` // minutes, advisory
	RateLimitMax     int       `bson:"rate_limit_max" json:"rate_limit_max"`       // advisory
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
}

// Defaults returns the built-in configuration used on lazy creation
func Defaults() *Settings {
	return &Settings{
		SystemPrompt:     defaultSystemPrompt,
		CarePrompt:       "Bakım Modu: cilt/saç/vücut rutini, adım adım, uygulanabilir öneriler.",
		MotivationPrompt: "Motivasyon Modu: sıcak, güçlendirici, duygu odaklı destek; klinik tavsiye yok.",
		DietPrompt:       "Beslenme Modu: dengeli rutin/alışkanlık; yargılayıcı dil yok; tıbbi diyet yazma.",
		Blacklist:        []string{"intihar", "intihar et", "öldür", "bomb", "bomba", "yasadışı", "tecavüz", "zarar ver"},
		Model:            "gpt-4o-mini",
		Temperature:      0.6,
		MaxTokens:        nil,
		FrequencyPenalty: 0,
		PresencePenalty:  0,
		TopP:             1,
		MaxMessageLength: 1000,
		RateLimitWindow:  15,
		RateLimitMax:     100,
	}
}

// ModePrompt selects the prompt for a mode, falling back to the generic
// balanced-advice instruction for anything unrecognized.
func (s *Settings) ModePrompt(mode chat.Mode) string {
	switch mode {
	case chat.ModeCare:
		return s.CarePrompt
	case chat.ModeMotivation:
		return s.MotivationPrompt
	case chat.ModeDiet:
		return s.DietPrompt
	default:
		return GenericModePrompt
	}
}

// Clamp forces every numeric field into its declared bounds. Out-of-range
// admin input is clamped, not rejected, consistently.
func (s *Settings) Clamp() {
	s.Temperature = clamp(s.Temperature, 0, 2)
	s.FrequencyPenalty = clamp(s.FrequencyPenalty, -2, 2)
	s.PresencePenalty = clamp(s.PresencePenalty, -2, 2)
	s.TopP = clamp(s.TopP, 0, 1)
	if s.MaxMessageLength <= 0 {
		s.MaxMessageLength = Defaults().MaxMessageLength
	}
	if s.MaxTokens != nil && *s.MaxTokens <= 0 {
		s.MaxTokens = nil
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Update is a partial patch: only non-nil fields are applied, everything
// else keeps its prior value.
type Update struct {
	SystemPrompt     *string   `json:"system_prompt,omitempty"`
	CarePrompt       *string   `json:"care_prompt,omitempty"`
	MotivationPrompt *string   `json:"motivation_prompt,omitempty"`
	DietPrompt       *string   `json:"diet_prompt,omitempty"`
	Blacklist        *[]string `json:"blacklist,omitempty"`
	Model            *string   `json:"model,omitempty"`
	Temperature      *float64  `json:"temperature,omitempty"`
	MaxTokens        *int      `json:"max_tokens,omitempty"`
	FrequencyPenalty *float64  `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64  `json:"presence_penalty,omitempty"`
	TopP             *float64  `json:"top_p,omitempty"`
	MaxMessageLength *int      `json:"max_message_length,omitempty"`
	RateLimitWindow  *int      `json:"rate_limit_window,omitempty"`
	RateLimitMax     *int      `json:"rate_limit_max,omitempty"`
}

// Apply patches s with the fields present in u, clamps the result and
// refreshes the update timestamp.
func (u *Update) Apply(s *Settings) {
	if u.SystemPrompt != nil {
		s.SystemPrompt = *u.SystemPrompt
	}
	if u.CarePrompt != nil {
		s.CarePrompt = *u.CarePrompt
	}
	if u.MotivationPrompt != nil {
		s.MotivationPrompt = *u.MotivationPrompt
	}
	if u.DietPrompt != nil {
		s.DietPrompt = *u.DietPrompt
	}
	if u.Blacklist != nil {
		s.Blacklist = *u.Blacklist
	}
	if u.Model != nil {
		s.Model = *u.Model
	}
	if u.Temperature != nil {
		s.Temperature = *u.Temperature
	}
	if u.MaxTokens != nil {
		s.MaxTokens = u.MaxTokens
	}
	if u.FrequencyPenalty != nil {
		s.FrequencyPenalty = *u.FrequencyPenalty
	}
	if u.PresencePenalty != nil {
		s.PresencePenalty = *u.PresencePenalty
	}
	if u.TopP != nil {
		s.TopP = *u.TopP
	}
	if u.MaxMessageLength != nil {
		s.MaxMessageLength = *u.MaxMessageLength
	}
	if u.RateLimitWindow != nil {
		s.RateLimitWindow = *u.RateLimitWindow
	}
	if u.RateLimitMax != nil {
		s.RateLimitMax = *u.RateLimitMax
	}
	s.Clamp()
	s.UpdatedAt = time.Now()
}

// defaultSystemPrompt is the built-in persona. Turkish, storefront-specific:
// identity rules, tone, the product catalog and the recommendation policy.
const defaultSystemPrompt = `Sen sadece kadınlara yönelik tasarlanmış özel bir bakım ve yaşam asistanısın.

KİMLİK & TARZ:
- Sıcak, samimi, yargılamayan ve güçlendirici bir arkadaş gibisin.
- Net, uygulanabilir öneriler verirsin; gereksiz uzatma yapmazsın.
- Kullanıcının mahremiyetine saygılısın ve empati kurar gibi dinlersin.
- Hangi altyapı/teknoloji kullandığını ASLA söyleme.

KURALLAR:
- Tıbbi tanı koymaz, ciddi durumlarda uzmana yönlendirirsin.
- Kendine zarar, şiddet, nefret, yasa dışı konulara girmezsin.
- Bilmediğin bir şeyi uydurmaz, dürüstçe "bu konuda uzman değilim" dersin.

ÜRÜN KATALOĞUMUZ (SADECE BU ÜRÜNLER VAR):
1. Cream Cleanser - Günlük temizleyici (kuru/hassas cilt, nazik formül)
2. Soothing Toner - Yatıştırıcı tonik (kızarıklık, hassasiyet, serum öncesi)
3. Serum Step-1 - Hazırlık serumu (gözenek, ton eşitsizliği, mat cilt)
4. Serum Step-2 - Düzeltici serum (leke, hiperpigmentasyon, kızarıklık)
5. Serum Step-3 - Yoğun bakım serumu (anti-aging, kırışıklık, elastikiyet)
6. Peptide Mask - Özel bakım maskesi (yoğun nem, ince çizgi, özel günler)
7. 3-Steps Set - Komple rutin seti (hazırlama + düzeltme + güçlendirme)

ÜRÜN ÖNERİ KURALLARI:
- ASLA başka marka önerme, "internetten araştır" veya "eczaneden al" deme.
- Kullanıcı cilt sorunu belirttiğinde ilgili ürünü doğal bir şekilde öner.
- En fazla 1-2 ürün öner, zorlama yapma, seçenek sun: "istersen bakabilirsin".
- Genel sohbette veya alakasız durumlarda ürün önerme.

HAFIZA:
- Kullanıcının önceki mesajlarını hatırla ve tekrar sorma.
- Daha önce önerdiğin ürünleri tekrarlama, kişiselleştirilmiş öneriler yap.`
