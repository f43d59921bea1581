package model // import "github.com/storyhouse/storyhouse/model"

type LicenseTier string

const (
	TierFree      LicenseTier = "free"
	TierPremium   LicenseTier = "premium"
	TierExclusive LicenseTier = "exclusive"
)

// TierTerms is the fixed licensing template carried by a tier.
type TierTerms struct {
	MintingFee        float64 `json:"mintingFee"`
	TIPPrice          float64 `json:"tipPrice"`
	RoyaltyPercentage float64 `json:"royaltyPercentage"`
	// StakingRewardPercentage is taken out of the creator royalty.
	StakingRewardPercentage float64 `json:"stakingRewardPercentage"`
	CommercialUse           bool    `json:"commercialUse"`
	DerivativesAllowed      bool    `json:"derivativesAllowed"`
	Exclusivity             bool    `json:"exclusivity"`
	Transferable            bool    `json:"transferable"`
}

// PricingTerms is the per-chapter answer of the pricing calculator.
type PricingTerms struct {
	ChapterNumber     int         `json:"chapterNumber"`
	Tier              LicenseTier `json:"tier"`
	UnlockPrice       float64     `json:"unlockPrice"`
	ReadReward        float64     `json:"readReward"`
	LicensePrice      float64     `json:"licensePrice"`
	RoyaltyPercentage float64     `json:"royaltyPercentage"`
	IsFree            bool        `json:"isFree"`
}

// AdjustedEconomics is the quality/originality adjusted TIP economics for a
// chapter. All amounts are floored to whole TIP.
type AdjustedEconomics struct {
	AdjustedUnlockPrice  float64 `json:"adjustedUnlockPrice"`
	AdjustedReadReward   float64 `json:"adjustedReadReward"`
	CreatorReward        float64 `json:"creatorReward"`
	AdjustedLicensePrice float64 `json:"adjustedLicensePrice"`
}

// RoyaltySplit distributes derivative revenue between the original creator,
// the platform and the staking pool.
type RoyaltySplit struct {
	RoyaltyToCreator   float64 `json:"royaltyToCreator"`
	PlatformFee        float64 `json:"platformFee"`
	StakingReward      float64 `json:"stakingReward"`
	OriginalCreatorNet float64 `json:"originalCreatorNet"`
}
