package language

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhatlangDetector(t *testing.T) {
	d := NewWhatlangDetector()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "french",
			text: "Bonjour, je voudrais savoir à quelle heure est servi le petit déjeuner demain matin.",
			want: "fr",
		},
		{
			name: "english",
			text: "Hello, could you please tell me what time breakfast is served tomorrow morning?",
			want: "en",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := d.Detect(tt.text)
			if assert.NoError(t, err) {
				assert.Equal(t, tt.want, code)
			}
		})
	}

	_, err := d.Detect("   ")
	assert.ErrorIs(t, err, ErrUndetermined)
}

func TestDetectOrDefault(t *testing.T) {
	failing := DetectorFunc(func(string) (string, error) {
		return "", errors.New("boom")
	})
	empty := DetectorFunc(func(string) (string, error) {
		return "", nil
	})
	german := DetectorFunc(func(string) (string, error) {
		return "de", nil
	})

	assert.Equal(t, DefaultCode, DetectOrDefault(failing, "Guten Tag"))
	assert.Equal(t, DefaultCode, DetectOrDefault(empty, "Guten Tag"))
	assert.Equal(t, DefaultCode, DetectOrDefault(nil, "Guten Tag"))
	assert.Equal(t, "de", DetectOrDefault(german, "Guten Tag"))
}
