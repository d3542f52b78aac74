package homepage

// BookmarksConfig is the root of a gethomepage bookmarks.yaml:
//
//	- Developer:
//	    - Github:
//	        - abbr: GH
//	          href: https://github.com/
//
// Group and bookmark names are dynamic keys; every bookmark maps to a
// single-element list of properties.
type BookmarksConfig []BookmarkGroup

// BookmarkGroup maps a group name to its bookmarks.
type BookmarkGroup map[string][]map[string][]BookmarkEntry

// BookmarkEntry holds the properties of one bookmark. Fields beyond
// icon/abbr/href/description are linkroll extensions that homepage ignores.
type BookmarkEntry struct {
	Href        string `yaml:"href"`
	Abbr        string `yaml:"abbr,omitempty"`
	Icon        string `yaml:"icon,omitempty"`
	Description string `yaml:"description,omitempty"`
	Target      string `yaml:"target,omitempty"`
	Rel         string `yaml:"rel,omitempty"`
	Rating      int    `yaml:"rating,omitempty"`
	Visible     *bool  `yaml:"visible,omitempty"`
	Notes       string `yaml:"notes,omitempty"`
	RSS         string `yaml:"rss,omitempty"`
	Updated     string `yaml:"updated,omitempty"`
}
