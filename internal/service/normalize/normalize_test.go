package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"reel corto", Type{"video", "reel_corto"}},
		{"Reel-Corto", Type{"video", "reel_corto"}},
		{"  REEL_CORTO ", Type{"video", "reel_corto"}},
		{"reelcorto", Type{"video", "reel_corto"}},
		{"reel  largo", Type{"video", "reel_largo"}},
		{"Reel", Type{"video", "reel"}},
		{"vídeo", Type{"video", "video"}},
		{"diseño simple", Type{"diseno", "diseno_simple"}},
		{"DISENO SIMPLE", Type{"diseno", "diseno_simple"}},
		{"Diseño Complejo", Type{"diseno", "diseno_complejo"}},
		{"diseño", Type{"diseno", "diseno"}},
		{"Fotografía elaborada", Type{"foto", "foto_elaborada"}},
		{"foto-simple", Type{"foto", "foto_simple"}},
		{"fotos", Type{"foto", "foto"}},
		{"Guión", Type{"otro", "guion"}},
		{"sesión de grabación", Type{"otro", "sesion"}},
		{"edición", Type{"otro", "edicion"}},
		{"Revisión", Type{"otro", "revision"}},
		{"brief", Type{"otro", "brief"}},
		{"  Community Management ", Type{"otro", "community management"}},
		{"", Type{"otro", "otro"}},
		{"   ", Type{"otro", "otro"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestIsBillable(t *testing.T) {
	assert.True(t, IsBillable(GeneralVideo))
	assert.True(t, IsBillable(GeneralDiseno))
	assert.True(t, IsBillable(GeneralFoto))
	assert.False(t, IsBillable(GeneralOtro))
}
