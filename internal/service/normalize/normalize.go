// Package normalize maps free-text work-type labels onto the two-level
// taxonomy used by the metrics engine.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	GeneralVideo  = "video"
	GeneralDiseno = "diseno"
	GeneralFoto   = "foto"
	GeneralOtro   = "otro"
)

// Billable are the general categories that carry targets and averages.
var Billable = []string{GeneralVideo, GeneralFoto, GeneralDiseno}

type Type struct {
	General  string `json:"general"`
	Specific string `json:"specific"`
}

// synonyms lists, per canonical type, the spellings seen in worklogs.
var synonyms = []struct {
	t        Type
	variants []string
}{
	{Type{GeneralVideo, "reel_corto"}, []string{"reel corto", "reel_corto", "reel-corto", "reelcorto", "reel short", "short", "video corto", "vídeo corto"}},
	{Type{GeneralVideo, "reel_largo"}, []string{"reel largo", "reel_largo", "reel-largo", "reellargo", "reel long", "video largo", "vídeo largo"}},
	{Type{GeneralVideo, "reel"}, []string{"reel", "reels"}},
	{Type{GeneralVideo, "video"}, []string{"video", "vídeo", "videos", "vídeos"}},
	{Type{GeneralDiseno, "diseno_simple"}, []string{"diseño simple", "diseno simple", "diseño_simple", "diseno_simple", "diseño-simple", "diseno-simple", "diseño sencillo", "post simple"}},
	{Type{GeneralDiseno, "diseno_complejo"}, []string{"diseño complejo", "diseno complejo", "diseño_complejo", "diseno_complejo", "diseño-complejo", "diseno-complejo", "carrusel", "carousel"}},
	{Type{GeneralDiseno, "diseno"}, []string{"diseño", "diseno", "diseños", "disenos", "design", "post"}},
	{Type{GeneralFoto, "foto_simple"}, []string{"foto simple", "foto_simple", "foto-simple", "fotografía simple", "fotografia simple", "foto sencilla"}},
	{Type{GeneralFoto, "foto_elaborada"}, []string{"foto elaborada", "foto_elaborada", "foto-elaborada", "fotografía elaborada", "fotografia elaborada", "foto producida"}},
	{Type{GeneralFoto, "foto"}, []string{"foto", "fotos", "fotografía", "fotografia", "photo"}},
	{Type{GeneralOtro, "guion"}, []string{"guion", "guión", "guiones", "script"}},
	{Type{GeneralOtro, "sesion"}, []string{"sesion", "sesión", "sesiones", "sesión de grabación", "sesion de grabacion", "grabación", "grabacion"}},
	{Type{GeneralOtro, "edicion"}, []string{"edicion", "edición"}},
	{Type{GeneralOtro, "color"}, []string{"color", "colorización", "colorizacion"}},
	{Type{GeneralOtro, "upload"}, []string{"upload", "subida", "publicación", "publicacion"}},
	{Type{GeneralOtro, "brief"}, []string{"brief"}},
	{Type{GeneralOtro, "revision"}, []string{"revision", "revisión", "revisiones"}},
}

var index = buildIndex()

func buildIndex() map[string]Type {
	idx := make(map[string]Type)
	for _, s := range synonyms {
		for _, v := range s.variants {
			idx[fold(v)] = s.t
		}
	}
	return idx
}

var (
	separators = strings.NewReplacer("-", " ", "_", " ", ".", " ", "/", " ")
	accents    = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// fold lowercases, strips accents and collapses separators to single spaces.
func fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if stripped, _, err := transform.String(accents, s); err == nil {
		s = stripped
	}
	return strings.Join(strings.Fields(separators.Replace(s)), " ")
}

// Normalize is total: empty input is {otro, otro}, unknown input is
// {otro, lowercased input}.
func Normalize(label string) Type {
	key := fold(label)
	if key == "" {
		return Type{GeneralOtro, GeneralOtro}
	}
	if t, ok := index[key]; ok {
		return t
	}
	if t, ok := index[strings.ReplaceAll(key, " ", "")]; ok {
		return t
	}
	return Type{GeneralOtro, strings.ToLower(strings.TrimSpace(label))}
}

func IsBillable(general string) bool {
	switch general {
	case GeneralVideo, GeneralFoto, GeneralDiseno:
		return true
	}
	return false
}
