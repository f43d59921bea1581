// Package chain is the boundary to the IP registration protocol. The actual
// SDK lives outside this repository; everything here treats registration as
// a black box returning opaque ids.
package chain // import "github.com/storyhouse/storyhouse/chain"

import (
	"context"

	"github.com/storyhouse/storyhouse/model"
)

// Receipt is the opaque proof a registration or license mint landed.
type Receipt struct {
	IPAssetID       string `json:"ipAssetId"`
	LicenseTermsID  string `json:"licenseTermsId"`
	TransactionHash string `json:"transactionHash"`
}

// RegisterRequest asks for a chapter to be anchored as an IP asset.
type RegisterRequest struct {
	BookID        string
	ChapterKey    string
	AuthorAddress string
	Tier          model.LicenseTier
	ContentHash   string
}

type Client interface {
	RegisterIPAsset(ctx context.Context, req RegisterRequest) (*Receipt, error)
	MintLicense(ctx context.Context, ipAssetID string, tier model.LicenseTier) (*Receipt, error)
}
