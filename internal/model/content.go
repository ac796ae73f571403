package model

// Content sections served on the storefront home page.
const (
	SectionHero       = "hero"
	SectionAds        = "ads"
	SectionBlog       = "blog"
	SectionCategories = "categories"
)

// HeroSlide is one slide of the home page hero slider.
type HeroSlide struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	ImageURL string `json:"imageUrl"`
	LinkURL  string `json:"linkUrl,omitempty"`
}

// Ad is a promotional banner.
type Ad struct {
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
	LinkURL  string `json:"linkUrl,omitempty"`
}

// BlogPost is a blog teaser.
type BlogPost struct {
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Published string `json:"published"`
}

// ExploreCategory is a tile of the explore-categories grid.
type ExploreCategory struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	ImageURL string `json:"imageUrl"`
}

// Content is the whole content document.
type Content struct {
	Hero       []HeroSlide       `json:"hero"`
	Ads        []Ad              `json:"ads"`
	Blog       []BlogPost        `json:"blog"`
	Categories []ExploreCategory `json:"categories"`
}

// Section returns the named section, or false when name is unknown.
func (c *Content) Section(name string) (any, bool) {
	switch name {
	case SectionHero:
		return c.Hero, true
	case SectionAds:
		return c.Ads, true
	case SectionBlog:
		return c.Blog, true
	case SectionCategories:
		return c.Categories, true
	default:
		return nil, false
	}
}
