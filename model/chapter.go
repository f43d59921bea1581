package model // import "github.com/storyhouse/storyhouse/model"

type Chapter struct {
	ChapterNumber int    `json:"chapterNumber"`
	Title         string `json:"title,omitempty"`
	AuthorAddress string `json:"authorAddress"`
	Content       string `json:"content"`
	WordCount     int    `json:"wordCount,omitempty"`

	// On-chain anchors. Once IPAssetID is set the chapter is immutable:
	// it can not be deleted or renumbered.
	IPAssetID       string `json:"ipAssetId,omitempty"`
	TransactionHash string `json:"transactionHash,omitempty"`
	LicenseTermsID  string `json:"licenseTermsId,omitempty"`

	// Economic terms derived by the pricing calculator and persisted
	// alongside the content.
	UnlockPrice       float64 `json:"unlockPrice"`
	ReadReward        float64 `json:"readReward"`
	LicensePrice      float64 `json:"licensePrice"`
	RoyaltyPercentage float64 `json:"royaltyPercentage"`

	// Scores assigned by the (out of scope) curation pipeline, 0-100.
	QualityScore     int `json:"qualityScore,omitempty"`
	OriginalityScore int `json:"originalityScore,omitempty"`

	CreatedAt string `json:"createdAt,omitempty"`
}

// IsAnchored reports whether the chapter has been registered on-chain.
func (c *Chapter) IsAnchored() bool {
	return c.IPAssetID != ""
}
