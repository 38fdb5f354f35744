package renderer

// FrontierRow is one allocation of an efficient-frontier table.
type FrontierRow struct {
	Weights string
	Return  string
	Risk    string
}

// FrontierMarkdown renders an efficient frontier to a markdown string.
func FrontierMarkdown(rows []FrontierRow) string {
	return renderTemplate("frontier", "templates/frontier.md", nil, rows)
}
