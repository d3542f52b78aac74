package render

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/linkroll/internal/domain"
)

// WalkOptions controls how each bookmark is formatted.
type WalkOptions struct {
	ShowUpdated     bool
	ShowDescription bool
	ShowImages      bool
	ShowName        bool
	ShowRating      bool
	Before          string
	After           string
	Between         string
	LinkBefore      string
	LinkAfter       string
}

// ListOptions controls the full listing. Walk options are forwarded to
// the item renderer.
type ListOptions struct {
	OrderBy         string
	Order           string
	Limit           int // -1 = unlimited
	Category        string
	ExcludeCategory string
	CategoryName    string
	HideInvisible   bool
	Echo            bool
	Categorize      bool
	TitleLi         string
	TitleBefore     string
	TitleAfter      string
	CategoryOrderBy string
	CategoryOrder   string
	Class           string
	CategoryBefore  string
	CategoryAfter   string
	Include         string
	Exclude         string
	Search          string

	Walk WalkOptions
}

// DefaultWalkOptions returns the item renderer defaults.
func DefaultWalkOptions() WalkOptions {
	return WalkOptions{
		ShowImages: true,
		Before:     "<li>",
		After:      "</li>",
		Between:    "\n",
	}
}

// DefaultListOptions returns the list renderer defaults.
func DefaultListOptions() ListOptions {
	return ListOptions{
		OrderBy:         domain.OrderByName,
		Order:           domain.OrderAsc,
		Limit:           -1,
		HideInvisible:   true,
		Echo:            true,
		Categorize:      true,
		TitleLi:         "Bookmarks",
		TitleBefore:     "<h2>",
		TitleAfter:      "</h2>",
		CategoryOrderBy: domain.CategoryOrderByName,
		CategoryOrder:   domain.OrderAsc,
		Class:           "linkcat",
		CategoryBefore:  `<li id="%id" class="%class">`,
		CategoryAfter:   "</li>",
		Walk:            DefaultWalkOptions(),
	}
}

// ParseListArgs merges a query-string style argument list
// ("categorize=0&title_li=Links") onto the defaults. Malformed pairs and
// unknown keys are ignored.
func ParseListArgs(raw string) ListOptions {
	values, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	return MergeListArgs(DefaultListOptions(), values)
}

// ParseWalkArgs is ParseListArgs for the item renderer alone.
func ParseWalkArgs(raw string) WalkOptions {
	values, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	return MergeWalkArgs(DefaultWalkOptions(), values)
}

// MergeListArgs applies every recognized key of values onto base.
// When a key repeats, the last value wins.
func MergeListArgs(base ListOptions, values url.Values) ListOptions {
	opts := base
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		if set, ok := listSetters[strings.ToLower(key)]; ok {
			set(&opts, vals[len(vals)-1])
		}
	}
	opts.Walk = MergeWalkArgs(opts.Walk, values)
	return opts
}

// MergeWalkArgs applies every recognized walk key of values onto base.
func MergeWalkArgs(base WalkOptions, values url.Values) WalkOptions {
	opts := base
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		if set, ok := walkSetters[strings.ToLower(key)]; ok {
			set(&opts, vals[len(vals)-1])
		}
	}
	return opts
}

var listSetters = map[string]func(*ListOptions, string){
	"orderby":          func(o *ListOptions, v string) { o.OrderBy = v },
	"order":            func(o *ListOptions, v string) { o.Order = v },
	"limit":            func(o *ListOptions, v string) { o.Limit = parseInt(v, o.Limit) },
	"category":         func(o *ListOptions, v string) { o.Category = v },
	"exclude_category": func(o *ListOptions, v string) { o.ExcludeCategory = v },
	"category_name":    func(o *ListOptions, v string) { o.CategoryName = v },
	"hide_invisible":   func(o *ListOptions, v string) { o.HideInvisible = ParseBool(v) },
	"echo":             func(o *ListOptions, v string) { o.Echo = ParseBool(v) },
	"categorize":       func(o *ListOptions, v string) { o.Categorize = ParseBool(v) },
	"title_li":         func(o *ListOptions, v string) { o.TitleLi = v },
	"title_before":     func(o *ListOptions, v string) { o.TitleBefore = v },
	"title_after":      func(o *ListOptions, v string) { o.TitleAfter = v },
	"category_orderby": func(o *ListOptions, v string) { o.CategoryOrderBy = v },
	"category_order":   func(o *ListOptions, v string) { o.CategoryOrder = v },
	"class":            func(o *ListOptions, v string) { o.Class = v },
	"category_before":  func(o *ListOptions, v string) { o.CategoryBefore = v },
	"category_after":   func(o *ListOptions, v string) { o.CategoryAfter = v },
	"include":          func(o *ListOptions, v string) { o.Include = v },
	"exclude":          func(o *ListOptions, v string) { o.Exclude = v },
	"search":           func(o *ListOptions, v string) { o.Search = v },
}

var walkSetters = map[string]func(*WalkOptions, string){
	"show_updated":     func(o *WalkOptions, v string) { o.ShowUpdated = ParseBool(v) },
	"show_description": func(o *WalkOptions, v string) { o.ShowDescription = ParseBool(v) },
	"show_images":      func(o *WalkOptions, v string) { o.ShowImages = ParseBool(v) },
	"show_name":        func(o *WalkOptions, v string) { o.ShowName = ParseBool(v) },
	"show_rating":      func(o *WalkOptions, v string) { o.ShowRating = ParseBool(v) },
	"before":           func(o *WalkOptions, v string) { o.Before = v },
	"after":            func(o *WalkOptions, v string) { o.After = v },
	"between":          func(o *WalkOptions, v string) { o.Between = v },
	"link_before":      func(o *WalkOptions, v string) { o.LinkBefore = v },
	"link_after":       func(o *WalkOptions, v string) { o.LinkAfter = v },
}

// Values encodes every option under its argument key. Encoding the result
// gives a canonical form, suitable as a cache key.
func (o ListOptions) Values() url.Values {
	v := url.Values{}
	v.Set("orderby", o.OrderBy)
	v.Set("order", o.Order)
	v.Set("limit", strconv.Itoa(o.Limit))
	v.Set("category", o.Category)
	v.Set("exclude_category", o.ExcludeCategory)
	v.Set("category_name", o.CategoryName)
	v.Set("hide_invisible", formatBool(o.HideInvisible))
	v.Set("echo", formatBool(o.Echo))
	v.Set("categorize", formatBool(o.Categorize))
	v.Set("title_li", o.TitleLi)
	v.Set("title_before", o.TitleBefore)
	v.Set("title_after", o.TitleAfter)
	v.Set("category_orderby", o.CategoryOrderBy)
	v.Set("category_order", o.CategoryOrder)
	v.Set("class", o.Class)
	v.Set("category_before", o.CategoryBefore)
	v.Set("category_after", o.CategoryAfter)
	v.Set("include", o.Include)
	v.Set("exclude", o.Exclude)
	v.Set("search", o.Search)
	v.Set("show_updated", formatBool(o.Walk.ShowUpdated))
	v.Set("show_description", formatBool(o.Walk.ShowDescription))
	v.Set("show_images", formatBool(o.Walk.ShowImages))
	v.Set("show_name", formatBool(o.Walk.ShowName))
	v.Set("show_rating", formatBool(o.Walk.ShowRating))
	v.Set("before", o.Walk.Before)
	v.Set("after", o.Walk.After)
	v.Set("between", o.Walk.Between)
	v.Set("link_before", o.Walk.LinkBefore)
	v.Set("link_after", o.Walk.LinkAfter)
	return v
}

// BookmarkQuery translates the filter options into a catalog query.
func (o ListOptions) BookmarkQuery(window time.Duration, now time.Time) domain.BookmarkQuery {
	return domain.BookmarkQuery{
		OrderBy:               o.OrderBy,
		Order:                 o.Order,
		Limit:                 o.Limit,
		Category:              ParseIDList(o.Category),
		CategoryName:          strings.TrimSpace(o.CategoryName),
		HideInvisible:         o.HideInvisible,
		ShowUpdated:           o.Walk.ShowUpdated,
		Include:               ParseIDList(o.Include),
		Exclude:               ParseIDList(o.Exclude),
		Search:                o.Search,
		RecentlyUpdatedWindow: window,
		Now:                   now,
	}
}

// CategoryQuery translates the category options into a catalog query.
// Listings never expand the hierarchy and never show empty categories.
func (o ListOptions) CategoryQuery() domain.CategoryQuery {
	return domain.CategoryQuery{
		NameLike:     strings.TrimSpace(o.CategoryName),
		Include:      ParseIDList(o.Category),
		Exclude:      ParseIDList(o.ExcludeCategory),
		OrderBy:      o.CategoryOrderBy,
		Order:        o.CategoryOrder,
		HideEmpty:    true,
		Hierarchical: false,
	}
}

// ParseBool reads the loose boolean forms accepted in argument strings.
func ParseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// ParseIDList reads a comma or space separated list of ids, skipping
// anything that is not a positive integer.
func ParseIDList(v string) []int64 {
	fields := strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func parseInt(v string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return i
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Deterministic reports whether the listing only changes with the catalog,
// i.e. it is not sorted randomly. Only deterministic listings are cached.
func (o ListOptions) Deterministic() bool {
	for _, k := range (domain.BookmarkQuery{OrderBy: o.OrderBy}).OrderKeys() {
		if k == domain.OrderByRand {
			return false
		}
	}
	return true
}
