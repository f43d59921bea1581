// Package pricing derives per-chapter economic terms, quality adjusted TIP
// economics and royalty distributions. Pure arithmetic, no I/O.
package pricing // import "github.com/storyhouse/storyhouse/pricing"

import (
	"math"

	"github.com/pkg/errors"

	"github.com/storyhouse/storyhouse/model"
)

// ErrInvalidPricingRequest means the chapter number, tier or score passed to
// the calculator is invalid. Always a caller bug, never retried.
var ErrInvalidPricingRequest = errors.New("pricing: invalid pricing request")

const (
	// PlatformFeePercent is the fixed platform cut of derivative revenue.
	PlatformFeePercent = 5.0
	// CreatorRewardShare is the creator's cut of the adjusted read reward
	// pool; the remainder is the implicit platform share.
	CreatorRewardShare = 0.8
	// CommercialMultiplier scales license prices when commercial rights
	// are granted.
	CommercialMultiplier = 1.5
)

type Calculator struct {
	// BaseFreeReward is paid for reading a free preview chapter.
	BaseFreeReward float64
	// BaseReadReward is paid for reading a paid chapter.
	BaseReadReward float64
	// TierUnlockPrice is the default unlock price of a paid chapter.
	TierUnlockPrice float64
	// TierLicensePrice is the default remix license price of a paid chapter.
	TierLicensePrice float64

	tiers map[model.LicenseTier]model.TierTerms
}

func NewCalculator() *Calculator {
	return &Calculator{
		BaseFreeReward:   0.05,
		BaseReadReward:   0.1,
		TierUnlockPrice:  0.5,
		TierLicensePrice: 2.0,
		tiers: map[model.LicenseTier]model.TierTerms{
			model.TierFree: {
				MintingFee:              0,
				TIPPrice:                0,
				RoyaltyPercentage:       0,
				StakingRewardPercentage: 0,
				CommercialUse:           false,
				DerivativesAllowed:      true,
				Exclusivity:             false,
				Transferable:            true,
			},
			model.TierPremium: {
				MintingFee:              100,
				TIPPrice:                100,
				RoyaltyPercentage:       10,
				StakingRewardPercentage: 5,
				CommercialUse:           true,
				DerivativesAllowed:      true,
				Exclusivity:             false,
				Transferable:            true,
			},
			model.TierExclusive: {
				MintingFee:              1000,
				TIPPrice:                500,
				RoyaltyPercentage:       25,
				StakingRewardPercentage: 10,
				CommercialUse:           true,
				DerivativesAllowed:      true,
				Exclusivity:             true,
				Transferable:            false,
			},
		},
	}
}

// TierTerms returns the fixed template for a tier.
func (c *Calculator) TierTerms(tier model.LicenseTier) (model.TierTerms, error) {
	terms, ok := c.tiers[tier]
	if !ok {
		return model.TierTerms{}, errors.Wrapf(ErrInvalidPricingRequest, "unknown tier %q", tier)
	}
	return terms, nil
}

// ChapterPricing computes the economic terms of a chapter. Chapters up to
// the free preview boundary are always free regardless of tier.
func (c *Calculator) ChapterPricing(chapterNumber int, tier model.LicenseTier) (*model.PricingTerms, error) {
	if chapterNumber <= 0 {
		return nil, errors.Wrapf(ErrInvalidPricingRequest, "chapter %d", chapterNumber)
	}
	terms, err := c.TierTerms(tier)
	if err != nil {
		return nil, err
	}

	pricing := &model.PricingTerms{
		ChapterNumber:     chapterNumber,
		Tier:              tier,
		RoyaltyPercentage: terms.RoyaltyPercentage,
	}

	if chapterNumber <= model.FreeChapterCount {
		pricing.IsFree = true
		pricing.ReadReward = c.BaseFreeReward
		return pricing, nil
	}

	pricing.UnlockPrice = c.TierUnlockPrice
	pricing.ReadReward = c.BaseReadReward
	pricing.LicensePrice = c.TierLicensePrice
	return pricing, nil
}

// AdjustedEconomics applies quality and originality modifiers to a chapter's
// TIP economics. Scores are 0-100; outputs are floored to whole TIP.
func (c *Calculator) AdjustedEconomics(baseUnlockPrice, baseReadReward float64, tier model.LicenseTier, qualityScore, originalityScore int, commercialRights bool) (*model.AdjustedEconomics, error) {
	if qualityScore < 0 || qualityScore > 100 {
		return nil, errors.Wrapf(ErrInvalidPricingRequest, "quality score %d", qualityScore)
	}
	if originalityScore < 0 || originalityScore > 100 {
		return nil, errors.Wrapf(ErrInvalidPricingRequest, "originality score %d", originalityScore)
	}
	if _, err := c.TierTerms(tier); err != nil {
		return nil, err
	}

	qualityMultiplier := 1 + float64(qualityScore)/100
	originalityMultiplier := 1 + float64(originalityScore)/200
	commercialMultiplier := 1.0
	if commercialRights {
		commercialMultiplier = CommercialMultiplier
	}

	adjustedReadReward := math.Floor(baseReadReward * qualityMultiplier * originalityMultiplier)
	return &model.AdjustedEconomics{
		AdjustedUnlockPrice:  math.Floor(baseUnlockPrice * qualityMultiplier),
		AdjustedReadReward:   adjustedReadReward,
		CreatorReward:        math.Floor(adjustedReadReward * CreatorRewardShare),
		AdjustedLicensePrice: math.Floor(c.TierLicensePrice * qualityMultiplier * commercialMultiplier),
	}, nil
}

// RoyaltySplit distributes derivative revenue for a tier. The outputs are
// non-negative and conserve value:
// originalCreatorNet + stakingReward == royaltyToCreator.
func (c *Calculator) RoyaltySplit(revenue float64, tier model.LicenseTier) (*model.RoyaltySplit, error) {
	if revenue < 0 {
		return nil, errors.Wrapf(ErrInvalidPricingRequest, "negative revenue %f", revenue)
	}
	terms, err := c.TierTerms(tier)
	if err != nil {
		return nil, err
	}

	royaltyToCreator := revenue * terms.RoyaltyPercentage / 100
	stakingReward := royaltyToCreator * terms.StakingRewardPercentage / 100
	return &model.RoyaltySplit{
		RoyaltyToCreator:   royaltyToCreator,
		PlatformFee:        revenue * PlatformFeePercent / 100,
		StakingReward:      stakingReward,
		OriginalCreatorNet: royaltyToCreator - stakingReward,
	}, nil
}
