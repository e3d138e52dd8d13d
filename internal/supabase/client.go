package supabase

import (
	"strings"

	"github.com/supabase-community/supabase-go"
)

type Client struct {
	Supabase *supabase.Client
	URL      string
	Key      string
}

func NewClient(supabaseURL, serviceKey string) (*Client, error) {
	// Ensure URL doesn't have trailing slash
	baseURL := strings.TrimRight(supabaseURL, "/")

	client, err := supabase.NewClient(baseURL, serviceKey, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		Supabase: client,
		URL:      baseURL,
		Key:      serviceKey,
	}, nil
}
