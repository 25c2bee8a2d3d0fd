package adapters

import (
	"context"
	"encoding/json"
)

// InlineSource carries its content in the source config itself
type InlineSource struct {
	Text string `json:"text"`
}

// InlineProvider loads [InlineSource] configs
type InlineProvider struct{}

func RegisterInline(r *Registry) {
	r.Register(InlineSourceType, &InlineProvider{})
}

func (p *InlineProvider) Load(_ context.Context, config []byte) (string, error) {
	var src InlineSource
	if err := json.Unmarshal(config, &src); err != nil {
		return "", err
	}
	return src.Text, nil
}
