package pricing

import (
	"math"
	"testing"

	"github.com/pkg/errors"

	"github.com/storyhouse/storyhouse/model"
)

func TestChapterPricingFreeBoundary(t *testing.T) {
	c := NewCalculator()

	for n := 1; n <= model.FreeChapterCount; n++ {
		for _, tier := range []model.LicenseTier{model.TierFree, model.TierPremium, model.TierExclusive} {
			terms, err := c.ChapterPricing(n, tier)
			if err != nil {
				t.Fatalf("Unexpected error for chapter %d tier %s: %v", n, tier, err)
			}
			if terms.UnlockPrice != 0 {
				t.Errorf("Chapter %d tier %s should be free, got unlock price %f", n, tier, terms.UnlockPrice)
			}
			if !terms.IsFree {
				t.Errorf("Chapter %d tier %s not marked free", n, tier)
			}
			if terms.ReadReward != c.BaseFreeReward {
				t.Errorf("Chapter %d read reward = %f, want %f", n, terms.ReadReward, c.BaseFreeReward)
			}
		}
	}

	terms, err := c.ChapterPricing(model.FreeChapterCount+1, model.TierFree)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if terms.UnlockPrice != 0.5 {
		t.Errorf("Chapter 4 unlock price = %f, want 0.5", terms.UnlockPrice)
	}
	if terms.ReadReward != 0.1 || terms.LicensePrice != 2.0 {
		t.Errorf("Chapter 4 terms = %+v", terms)
	}
}

func TestChapterPricingInvalid(t *testing.T) {
	c := NewCalculator()

	if _, err := c.ChapterPricing(0, model.TierFree); !errors.Is(err, ErrInvalidPricingRequest) {
		t.Errorf("Expected ErrInvalidPricingRequest for chapter 0, got %v", err)
	}
	if _, err := c.ChapterPricing(-3, model.TierPremium); !errors.Is(err, ErrInvalidPricingRequest) {
		t.Errorf("Expected ErrInvalidPricingRequest for negative chapter, got %v", err)
	}
	if _, err := c.ChapterPricing(5, model.LicenseTier("platinum")); !errors.Is(err, ErrInvalidPricingRequest) {
		t.Errorf("Expected ErrInvalidPricingRequest for unknown tier, got %v", err)
	}
}

func TestTierOrdering(t *testing.T) {
	c := NewCalculator()

	free, _ := c.TierTerms(model.TierFree)
	premium, _ := c.TierTerms(model.TierPremium)
	exclusive, _ := c.TierTerms(model.TierExclusive)

	if !(free.RoyaltyPercentage < premium.RoyaltyPercentage && premium.RoyaltyPercentage < exclusive.RoyaltyPercentage) {
		t.Errorf("Royalty percentages not ordered: %f %f %f",
			free.RoyaltyPercentage, premium.RoyaltyPercentage, exclusive.RoyaltyPercentage)
	}
	if !(free.MintingFee < premium.MintingFee && premium.MintingFee < exclusive.MintingFee) {
		t.Errorf("Minting fees not ordered: %f %f %f",
			free.MintingFee, premium.MintingFee, exclusive.MintingFee)
	}
	if !exclusive.Exclusivity || exclusive.Transferable {
		t.Errorf("Exclusive tier should be exclusive and non-transferable: %+v", exclusive)
	}
}

func TestAdjustedEconomics(t *testing.T) {
	c := NewCalculator()

	// quality 50 -> x1.5, originality 100 -> x1.5, commercial -> x1.5
	econ, err := c.AdjustedEconomics(50, 10, model.TierPremium, 50, 100, true)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if econ.AdjustedUnlockPrice != 75 { // floor(50 * 1.5)
		t.Errorf("AdjustedUnlockPrice = %f, want 75", econ.AdjustedUnlockPrice)
	}
	if econ.AdjustedReadReward != 22 { // floor(10 * 1.5 * 1.5)
		t.Errorf("AdjustedReadReward = %f, want 22", econ.AdjustedReadReward)
	}
	if econ.CreatorReward != 17 { // floor(22 * 0.8)
		t.Errorf("CreatorReward = %f, want 17", econ.CreatorReward)
	}
	if econ.AdjustedLicensePrice != 4 { // floor(2.0 * 1.5 * 1.5)
		t.Errorf("AdjustedLicensePrice = %f, want 4", econ.AdjustedLicensePrice)
	}
}

// The license price derives from the per-chapter license price, not the tier
// minting fee, and ignores the originality score.
func TestAdjustedLicensePriceBase(t *testing.T) {
	c := NewCalculator()

	econ, err := c.AdjustedEconomics(50, 10, model.TierPremium, 50, 0, true)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if econ.AdjustedLicensePrice != 4 { // floor(2.0 * 1.5 * 1.5)
		t.Errorf("AdjustedLicensePrice = %f, want 4", econ.AdjustedLicensePrice)
	}

	exclusive, err := c.AdjustedEconomics(50, 10, model.TierExclusive, 50, 0, true)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if exclusive.AdjustedLicensePrice != econ.AdjustedLicensePrice {
		t.Errorf("License price should not scale with the tier minting fee: %f vs %f",
			exclusive.AdjustedLicensePrice, econ.AdjustedLicensePrice)
	}

	noCommercial, err := c.AdjustedEconomics(50, 10, model.TierPremium, 50, 0, false)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if noCommercial.AdjustedLicensePrice != 3 { // floor(2.0 * 1.5)
		t.Errorf("AdjustedLicensePrice = %f, want 3", noCommercial.AdjustedLicensePrice)
	}
}

func TestAdjustedEconomicsInvalidScores(t *testing.T) {
	c := NewCalculator()

	if _, err := c.AdjustedEconomics(50, 10, model.TierFree, -1, 50, false); !errors.Is(err, ErrInvalidPricingRequest) {
		t.Errorf("Expected ErrInvalidPricingRequest for negative quality, got %v", err)
	}
	if _, err := c.AdjustedEconomics(50, 10, model.TierFree, 50, 101, false); !errors.Is(err, ErrInvalidPricingRequest) {
		t.Errorf("Expected ErrInvalidPricingRequest for score over 100, got %v", err)
	}
}

func TestRoyaltySplitConservation(t *testing.T) {
	c := NewCalculator()

	revenues := []float64{0, 1, 99.99, 1000, 123456.78}
	tiers := []model.LicenseTier{model.TierFree, model.TierPremium, model.TierExclusive}

	for _, tier := range tiers {
		for _, revenue := range revenues {
			split, err := c.RoyaltySplit(revenue, tier)
			if err != nil {
				t.Fatalf("Unexpected error for %s/%f: %v", tier, revenue, err)
			}
			for name, v := range map[string]float64{
				"royaltyToCreator":   split.RoyaltyToCreator,
				"platformFee":        split.PlatformFee,
				"stakingReward":      split.StakingReward,
				"originalCreatorNet": split.OriginalCreatorNet,
			} {
				if v < 0 {
					t.Errorf("%s negative for %s/%f: %f", name, tier, revenue, v)
				}
			}
			left := split.OriginalCreatorNet + split.PlatformFee + split.StakingReward
			right := split.RoyaltyToCreator + split.PlatformFee
			if math.Abs(left-right) > 1e-9 {
				t.Errorf("Split not conserved for %s/%f: %f != %f", tier, revenue, left, right)
			}
		}
	}
}

func TestRoyaltySplitInvalid(t *testing.T) {
	c := NewCalculator()

	if _, err := c.RoyaltySplit(-1, model.TierPremium); !errors.Is(err, ErrInvalidPricingRequest) {
		t.Errorf("Expected ErrInvalidPricingRequest for negative revenue, got %v", err)
	}
	if _, err := c.RoyaltySplit(100, model.LicenseTier("gold")); !errors.Is(err, ErrInvalidPricingRequest) {
		t.Errorf("Expected ErrInvalidPricingRequest for unknown tier, got %v", err)
	}
}
