package services

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMealImageObject(t *testing.T) {
	providerID := uuid.New()
	mealID := uuid.New()

	object := mealImageObject(providerID, mealID)
	assert.Equal(t, providerID.String()+"/"+mealID.String(), object)
}

func TestSniffContentType(t *testing.T) {
	pngHeader := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	jpegHeader := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"png", pngHeader, "image/png"},
		{"jpeg", jpegHeader, "image/jpeg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			br := bufio.NewReader(bytes.NewReader(tt.data))
			contentType, err := sniffContentType(br)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, contentType)

			// The sniff must not consume the stream
			head := make([]byte, len(tt.data))
			n, err := br.Read(head)
			assert.NoError(t, err)
			assert.Equal(t, tt.data, head[:n])
		})
	}
}
