package internal

import (
	"encoding/json"
	"fmt"

	"github.com/cnu-smr/reddit-collector/pkg/types"
)

// Parser decodes kind-tagged Things into their typed variants.
type Parser struct{}

// NewParser creates a new parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseListing extracts a ListingData from a Thing of kind "Listing".
func (p *Parser) ParseListing(thing *types.Thing) (*types.ListingData, error) {
	if thing == nil {
		return nil, fmt.Errorf("thing is nil")
	}
	if thing.Kind != types.KindListing {
		return nil, fmt.Errorf("expected Listing, got %s", thing.Kind)
	}

	var listing types.ListingData
	if err := json.Unmarshal(thing.Data, &listing); err != nil {
		return nil, fmt.Errorf("failed to parse Listing data: %w", err)
	}
	return &listing, nil
}

// ParsePost extracts a Post from a Thing of kind "t3".
func (p *Parser) ParsePost(thing *types.Thing) (*types.Post, error) {
	if thing == nil {
		return nil, fmt.Errorf("thing is nil")
	}
	if thing.Kind != types.KindPost {
		return nil, fmt.Errorf("expected t3 (Post), got %s", thing.Kind)
	}

	var post types.Post
	if err := json.Unmarshal(thing.Data, &post); err != nil {
		return nil, fmt.Errorf("failed to parse Post data: %w", err)
	}
	return &post, nil
}

// ParseComment extracts a Comment from a Thing of kind "t1".
func (p *Parser) ParseComment(thing *types.Thing) (*types.Comment, error) {
	if thing == nil {
		return nil, fmt.Errorf("thing is nil")
	}
	if thing.Kind != types.KindComment {
		return nil, fmt.Errorf("expected t1 (Comment), got %s", thing.Kind)
	}

	var comment types.Comment
	if err := json.Unmarshal(thing.Data, &comment); err != nil {
		return nil, fmt.Errorf("failed to parse Comment data: %w", err)
	}
	return &comment, nil
}

// ParseMore extracts a More placeholder from a Thing of kind "more".
func (p *Parser) ParseMore(thing *types.Thing) (*types.More, error) {
	if thing == nil {
		return nil, fmt.Errorf("thing is nil")
	}
	if thing.Kind != types.KindMore {
		return nil, fmt.Errorf("expected more, got %s", thing.Kind)
	}

	var more types.More
	if err := json.Unmarshal(thing.Data, &more); err != nil {
		return nil, fmt.Errorf("failed to parse More data: %w", err)
	}
	return &more, nil
}

// ExtractPosts extracts every Post from a search listing Thing.
func (p *Parser) ExtractPosts(listing *types.Thing) ([]*types.Post, error) {
	listingData, err := p.ParseListing(listing)
	if err != nil {
		return nil, err
	}

	posts := make([]*types.Post, 0, len(listingData.Children))
	for _, child := range listingData.Children {
		if child.Kind != types.KindPost {
			continue
		}
		post, err := p.ParsePost(child)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}
