package domain

import (
	"fmt"
	"strings"
)

// ToolResult is the normalized outcome of a single search invocation.
// Empty Items with Error set means the search failed; empty Items without
// Error means there were no matches.
type ToolResult struct {
	ToolName string       `json:"tool_name"`
	Query    string       `json:"query"`
	Items    []ResultItem `json:"items"`
	Error    string       `json:"error,omitempty"`
}

// Failed reports whether the search failed.
func (r ToolResult) Failed() bool { return r.Error != "" }

// Empty reports whether the result carries no items.
func (r ToolResult) Empty() bool { return len(r.Items) == 0 }

// FailedResult builds a ToolResult that reports err with no items.
func FailedResult(toolName, query string, err error) ToolResult {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return ToolResult{ToolName: toolName, Query: query, Error: msg}
}

// ResultItem is one entry of a ToolResult. The concrete type is one of
// GenericResult, MovieSummary or VideoResult.
type ResultItem interface {
	Title() string
	PrimaryLink() string
	SummaryLines() []string

	resultItem()
}

// Snippet flattens an item's summary lines into a single line.
func Snippet(item ResultItem) string {
	return strings.Join(item.SummaryLines(), " ")
}

// GenericResult is a plain web hit.
type GenericResult struct {
	Name    string `json:"title"`
	Link    string `json:"link"`
	Summary string `json:"snippet"`
}

func (g GenericResult) Title() string       { return g.Name }
func (g GenericResult) PrimaryLink() string { return g.Link }
func (GenericResult) resultItem()           {}

func (g GenericResult) SummaryLines() []string {
	if g.Summary == "" {
		return nil
	}
	return []string{g.Summary}
}

// MovieSummary is a film or series record from a metadata provider.
type MovieSummary struct {
	Name       string `json:"title"`
	Year       string `json:"year,omitempty"`
	Kind       string `json:"type,omitempty"`
	Rated      string `json:"rated,omitempty"`
	Runtime    string `json:"runtime,omitempty"`
	Genre      string `json:"genre,omitempty"`
	Director   string `json:"director,omitempty"`
	Actors     string `json:"actors,omitempty"`
	Plot       string `json:"plot,omitempty"`
	IMDbRating string `json:"imdb_rating,omitempty"`
	IMDbID     string `json:"imdb_id,omitempty"`
	Poster     string `json:"poster,omitempty"`
}

func (m MovieSummary) Title() string {
	if m.Year == "" {
		return m.Name
	}
	return fmt.Sprintf("%s (%s)", m.Name, m.Year)
}

func (m MovieSummary) PrimaryLink() string {
	if m.IMDbID == "" {
		return ""
	}
	return "https://www.imdb.com/title/" + m.IMDbID + "/"
}

func (m MovieSummary) SummaryLines() []string {
	var lines []string
	var facts []string
	for _, f := range []string{m.Genre, m.Rated, m.Runtime} {
		if f != "" {
			facts = append(facts, f)
		}
	}
	if m.IMDbRating != "" {
		facts = append(facts, "IMDb "+m.IMDbRating)
	}
	if len(facts) > 0 {
		lines = append(lines, strings.Join(facts, " | "))
	}
	if m.Director != "" {
		lines = append(lines, "Director: "+m.Director)
	}
	if m.Actors != "" {
		lines = append(lines, "Starring: "+m.Actors)
	}
	if m.Plot != "" {
		lines = append(lines, m.Plot)
	}
	return lines
}

func (MovieSummary) resultItem() {}

// VideoResult is a video hit such as a trailer.
type VideoResult struct {
	VideoID     string `json:"video_id"`
	Name        string `json:"title"`
	Channel     string `json:"channel,omitempty"`
	Description string `json:"description,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

func (v VideoResult) Title() string { return v.Name }

func (v VideoResult) PrimaryLink() string {
	if v.VideoID == "" {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + v.VideoID
}

func (v VideoResult) SummaryLines() []string {
	var lines []string
	if v.Channel != "" {
		lines = append(lines, "Channel: "+v.Channel)
	}
	if v.Description != "" {
		lines = append(lines, v.Description)
	}
	return lines
}

func (VideoResult) resultItem() {}
