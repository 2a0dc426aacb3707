package catalog

// MaxTags caps how many tag badges a card shows.
const MaxTags = 10

// RecentCount is how many write-ups the profile view lists.
const RecentCount = 3

// ActionKind says what selecting a card does.
type ActionKind int

const (
	// ActionNone: selecting the card does nothing.
	ActionNone ActionKind = iota
	// ActionDetail stores the write-up id in the tab slot and opens the
	// detail view.
	ActionDetail
	// ActionExternal opens Target in a new browsing context.
	ActionExternal
)

// Action is the selection behaviour attached to a card.
type Action struct {
	Kind   ActionKind
	Target string
}

// Tag is one badge on a card.
type Tag struct {
	Label   string
	NameTag bool
}

// Card is the display model of one record.
type Card struct {
	Title   string
	Meta    string
	Date    string
	Summary string
	Tags    []Tag
	Action  Action
	Recent  bool
}

// DateFormatter renders a stored date for a card.
type DateFormatter func(string) string

// Verbatim shows the stored date as is.
func Verbatim(s string) string { return s }

// WriteupCard builds the card for a write-up. The first tag is the name tag.
func WriteupCard(w Writeup, date DateFormatter) Card {
	c := Card{
		Title:   w.Title,
		Meta:    w.Platform + " | " + w.OS + " | " + Capitalize(w.Difficulty),
		Summary: w.Summary,
		Tags:    cardTags(w.Tags, true),
		Action:  Action{Kind: ActionDetail, Target: w.ID},
	}
	if date != nil {
		c.Date = date(w.Date)
	}
	return c
}

// PostCard builds the card for a post. Posts without a link get no action.
func PostCard(p Post) Card {
	c := Card{
		Title:   p.Title,
		Date:    p.Date,
		Summary: p.Summary,
		Tags:    cardTags(p.Tags, false),
	}
	if p.Link != "" {
		c.Action = Action{Kind: ActionExternal, Target: p.Link}
	}
	return c
}

// RecentCards renders the first RecentCount write-ups with pretty dates.
func RecentCards(ws []Writeup) []Card {
	n := min(len(ws), RecentCount)
	cards := make([]Card, 0, n)
	for _, w := range ws[:n] {
		c := WriteupCard(w, FormatPretty)
		c.Recent = true
		cards = append(cards, c)
	}
	return cards
}

func cardTags(tags []string, nameTag bool) []Tag {
	n := min(len(tags), MaxTags)
	out := make([]Tag, 0, n)
	for i, t := range tags[:n] {
		out = append(out, Tag{Label: t, NameTag: nameTag && i == 0})
	}
	return out
}
