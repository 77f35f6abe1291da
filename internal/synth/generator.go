package synth

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/fyrsmithlabs/creatived/internal/confidence"
)

// CreativeAnalysis is the creative read of one campaign asset.
type CreativeAnalysis struct {
	confidence.CreativeSignals
	ColorVibrancy    float64 `json:"color_vibrancy"`
	TextDensity      float64 `json:"text_density"`
	CompositionScore float64 `json:"composition_score"`
}

// Predictions are expected campaign performance figures. Rates are
// percentages; RevenueImpact is in budget currency units.
type Predictions struct {
	ROI            float64 `json:"predicted_roi"`
	CTR            float64 `json:"predicted_ctr"`
	EngagementRate float64 `json:"predicted_engagement_rate"`
	ConversionRate float64 `json:"predicted_conversion_rate"`
	BrandRecall    float64 `json:"predicted_brand_recall"`
	RevenueImpact  int64   `json:"predicted_revenue_impact"`
}

// Campaign is one synthetic campaign with its single asset.
type Campaign struct {
	ID        string    `json:"id"`
	Name      string    `json:"campaign_name"`
	Client    string    `json:"client_name"`
	Type      string    `json:"campaign_type"`
	Budget    int64     `json:"budget"`
	FileName  string    `json:"filename"`
	FileType  string    `json:"file_type"`
	MimeType  string    `json:"mime_type"`
	FileSize  int64     `json:"file_size"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	Creative    CreativeAnalysis `json:"creative_analysis"`
	Predictions Predictions      `json:"business_predictions"`
	Confidence  float64          `json:"confidence_score"`
}

// Generator produces campaigns from a plan.
type Generator struct {
	rng  *rand.Rand
	plan []CampaignType
	year int
}

// Option configures a Generator.
type Option func(*Generator)

// WithPlan replaces DefaultPlan.
func WithPlan(plan []CampaignType) Option {
	return func(g *Generator) { g.plan = plan }
}

// WithYear sets the calendar year campaigns run in. Defaults to 2024.
func WithYear(year int) Option {
	return func(g *Generator) { g.year = year }
}

// NewGenerator returns a Generator drawing from rng.
func NewGenerator(rng *rand.Rand, opts ...Option) *Generator {
	g := &Generator{rng: rng, plan: DefaultPlan, year: 2024}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns n campaigns. The plan is walked in order, type by type,
// and restarted if n exceeds one pass. IDs are sequential.
func (g *Generator) Generate(n int) []Campaign {
	if n <= 0 || PlanSize(g.plan) == 0 {
		return nil
	}
	out := make([]Campaign, 0, n)
	for len(out) < n {
		for _, ct := range g.plan {
			for i := 0; i < ct.Count && len(out) < n; i++ {
				out = append(out, g.campaign(len(out)+1, ct))
			}
		}
	}
	return out
}

func (g *Generator) campaign(seq int, ct CampaignType) Campaign {
	client := Clients[g.rng.IntN(len(Clients))]
	kind := fileKinds[g.rng.IntN(len(fileKinds))]
	ext := kind.Extensions[g.rng.IntN(len(kind.Extensions))]

	quarter := g.rng.IntN(4) + 1
	month := time.Month((quarter-1)*3 + g.rng.IntN(3) + 1)

	name := fmt.Sprintf("%s %s Q%d %d", ct.Name, strings.Fields(client)[0], quarter, g.year)
	c := Campaign{
		ID:        fmt.Sprintf("campaign_%03d", seq),
		Name:      name,
		Client:    client,
		Type:      ct.Name,
		Budget:    g.int64Between(ct.MinBudget, ct.MaxBudget),
		FileName:  strings.Join(strings.Fields(name), "_") + ext,
		FileType:  kind.Type,
		MimeType:  mimeByExtension[ext],
		FileSize:  g.int64Between(kind.MinSize, kind.MaxSize),
		StartDate: time.Date(g.year, month, 1, 0, 0, 0, 0, time.UTC),
		// day 0 of month+3 is the last day of month+2
		EndDate: time.Date(g.year, month+3, 0, 0, 0, 0, 0, time.UTC),
	}

	c.Creative = g.creative(ct.Name)
	c.Predictions = g.predict(c, ct)
	c.Confidence = confidence.Estimate(c.Creative.CreativeSignals, confidence.Predictions{
		ROI:            c.Predictions.ROI,
		CTR:            c.Predictions.CTR,
		EngagementRate: c.Predictions.EngagementRate,
		BrandRecall:    c.Predictions.BrandRecall,
	}, g.rng)
	return c
}

func (g *Generator) creative(campaignType string) CreativeAnalysis {
	s := confidence.CreativeSignals{
		HasLogo:            g.chance(0.15),
		HasProductShot:     g.chance(0.35),
		HasCallToAction:    g.chance(0.25),
		IsMinimalist:       g.chance(0.6),
		UsesBoldTypography: g.chance(0.45),
		EmotionalAppeal:    g.chance(0.3),
	}
	switch campaignType {
	case BrandAwareness:
		s.HasLogo = g.chance(0.05)
		s.EmotionalAppeal = g.chance(0.2)
	case ProductLaunch:
		s.HasProductShot = g.chance(0.1)
		s.HasCallToAction = g.chance(0.1)
	}
	return CreativeAnalysis{
		CreativeSignals:  s,
		ColorVibrancy:    round2(g.between(0.4, 1.0)),
		TextDensity:      round2(g.between(0.2, 1.0)),
		CompositionScore: round2(g.between(0.6, 1.0)),
	}
}

func (g *Generator) predict(c Campaign, ct CampaignType) Predictions {
	roi := 1.2 + ct.ROIBonus
	ctr := 0.8 + ct.CTRBonus
	engagement := 3.0 + ct.EngagementBonus

	s := c.Creative.CreativeSignals
	if s.HasCallToAction {
		roi *= 1.15
		ctr *= 1.25
	}
	if s.EmotionalAppeal {
		roi *= 1.10
		engagement *= 1.20
	}
	if s.HasProductShot {
		ctr *= 1.15
	}
	if s.UsesBoldTypography {
		ctr *= 1.08
	}
	if isMajorBrand(c.Client) {
		roi *= 1.12
		ctr *= 1.10
		engagement *= 1.15
	}

	roiVariance := g.between(-0.3, 0.3)
	ctrVariance := g.between(-0.2, 0.2)
	engagementVariance := g.between(-0.5, 0.5)

	return Predictions{
		ROI:            math.Max(1.0, round2(roi+roiVariance)),
		CTR:            math.Max(0.5, round2(ctr+ctrVariance)),
		EngagementRate: math.Max(1.0, round2(engagement+engagementVariance)),
		ConversionRate: round2(math.Max(0.5, g.between(1, 7))),
		BrandRecall:    round2(math.Max(25, g.between(35, 85))),
		RevenueImpact:  int64(math.Floor(float64(c.Budget) * (roi + roiVariance) * 0.8)),
	}
}

func isMajorBrand(client string) bool {
	for _, b := range majorBrands {
		if strings.Contains(client, b) {
			return true
		}
	}
	return false
}

// chance returns true with probability 1-p, matching "random > p".
func (g *Generator) chance(p float64) bool { return g.rng.Float64() > p }

func (g *Generator) between(lo, hi float64) float64 { return lo + g.rng.Float64()*(hi-lo) }

func (g *Generator) int64Between(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.Int64N(hi-lo)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
