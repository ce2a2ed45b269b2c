package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIncrementQuoteNumber(t *testing.T) {
	tests := []struct {
		name    string
		number  string
		want    string
		wantErr bool
	}{
		{name: "first in sequence", number: "QF-0001", want: "QF-0002"},
		{name: "keeps zero padding", number: "QF-0009", want: "QF-0010"},
		{name: "grows past padding", number: "QF-9999", want: "QF-10000"},
		{name: "no separator", number: "QF0001", wantErr: true},
		{name: "non-numeric sequence", number: "QF-abc", wantErr: true},
		{name: "empty", number: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IncrementQuoteNumber(tt.number)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
