package chain // import "github.com/storyhouse/storyhouse/chain"

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/storyhouse/storyhouse/model"
)

// StubClient fabricates receipts locally. It backs tests and the
// storage_backend=memory development mode where no protocol node exists.
type StubClient struct{}

var _ Client = (*StubClient)(nil)

func NewStubClient() *StubClient {
	return &StubClient{}
}

func (c *StubClient) RegisterIPAsset(ctx context.Context, req RegisterRequest) (*Receipt, error) {
	id := uuid.New().String()
	return &Receipt{
		IPAssetID:       fmt.Sprintf("ip-%s", id),
		LicenseTermsID:  fmt.Sprintf("lt-%s-%s", req.Tier, id[:8]),
		TransactionHash: fmt.Sprintf("0x%s", uuid.New().String()),
	}, nil
}

func (c *StubClient) MintLicense(ctx context.Context, ipAssetID string, tier model.LicenseTier) (*Receipt, error) {
	id := uuid.New().String()
	return &Receipt{
		IPAssetID:       ipAssetID,
		LicenseTermsID:  fmt.Sprintf("lt-%s-%s", tier, id[:8]),
		TransactionHash: fmt.Sprintf("0x%s", id),
	}, nil
}
