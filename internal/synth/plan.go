package synth

// CampaignType is a campaign category with its share of the portfolio and
// budget range.
type CampaignType struct {
	Name      string
	Count     int
	MinBudget int64
	MaxBudget int64

	// Prediction bonuses added to the base ROI, CTR and engagement.
	ROIBonus        float64
	CTRBonus        float64
	EngagementBonus float64
}

// Campaign type names.
const (
	BrandAwareness        = "Brand Awareness"
	ProductLaunch         = "Product Launch"
	Seasonal              = "Seasonal"
	DigitalTransformation = "Digital Transformation"
	SocialImpact          = "Social Impact"
)

// DefaultPlan is the standard 163-campaign portfolio.
var DefaultPlan = []CampaignType{
	{Name: BrandAwareness, Count: 45, MinBudget: 50_000, MaxBudget: 150_000, ROIBonus: 0.3, CTRBonus: 0.5, EngagementBonus: 3.0},
	{Name: ProductLaunch, Count: 38, MinBudget: 100_000, MaxBudget: 300_000, ROIBonus: 0.8, CTRBonus: 1.2, EngagementBonus: 2.0},
	{Name: Seasonal, Count: 32, MinBudget: 75_000, MaxBudget: 250_000, ROIBonus: 0.6, CTRBonus: 0.8, EngagementBonus: 1.5},
	{Name: DigitalTransformation, Count: 25, MinBudget: 80_000, MaxBudget: 200_000, ROIBonus: 0.4, CTRBonus: 0.6, EngagementBonus: 1.0},
	{Name: SocialImpact, Count: 23, MinBudget: 40_000, MaxBudget: 120_000, ROIBonus: 0.2, CTRBonus: 0.4, EngagementBonus: 2.5},
}

// PlanSize returns the number of campaigns in one pass over plan.
func PlanSize(plan []CampaignType) int {
	n := 0
	for _, t := range plan {
		n += t.Count
	}
	return n
}

// FileKind is an asset format with its extensions and size range in bytes.
type FileKind struct {
	Type       string
	Extensions []string
	MinSize    int64
	MaxSize    int64
}

var fileKinds = []FileKind{
	{Type: "video", Extensions: []string{".mp4", ".mov", ".avi"}, MinSize: 25_000_000, MaxSize: 150_000_000},
	{Type: "image", Extensions: []string{".jpg", ".png", ".gif"}, MinSize: 500_000, MaxSize: 15_000_000},
	{Type: "presentation", Extensions: []string{".pptx", ".pdf"}, MinSize: 5_000_000, MaxSize: 50_000_000},
	{Type: "document", Extensions: []string{".docx", ".pdf"}, MinSize: 100_000, MaxSize: 10_000_000},
	{Type: "audio", Extensions: []string{".mp3", ".wav"}, MinSize: 3_000_000, MaxSize: 25_000_000},
}

var mimeByExtension = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
}

// Clients is the client portfolio campaigns are drawn from.
var Clients = []string{
	"Apple Inc.", "McDonald's Corporation", "Adidas AG", "Airbnb Inc.",
	"Nissan Motor Company", "Singapore Airlines", "Standard Chartered Bank",
	"Pernod Ricard", "Chanel S.A.", "Mars Incorporated", "Henkel AG",
	"Johnson & Johnson", "Mastercard Incorporated", "Reckitt Benckiser",
	"Bacardi Limited", "Gatorade", "Pepsi Co", "Absolut Vodka",
	"PlayStation", "Michelin", "Hilton Hotels", "Turkish Airlines",
	"Expedia Group", "Spotify", "TikTok", "Snapchat", "LinkedIn",
	"Adobe Systems", "Salesforce", "Microsoft", "Google", "Meta",
	"Amazon", "Netflix", "Uber", "Tesla", "Nike", "Coca-Cola",
	"Samsung", "Sony", "BMW", "Mercedes-Benz", "Audi", "Volkswagen",
	"Ford Motor Company", "General Motors", "Toyota", "Honda",
}

// majorBrands get a multiplier on every prediction.
var majorBrands = []string{"Apple", "McDonald's", "Nike", "Coca-Cola", "Samsung", "Google", "Microsoft"}
