package httpcontroller

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ewahlberg/pressgang/internal/backend"
)

const feedItemLimit = 20

// rssFeed is the RSS 2.0 document shape.
type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	Description string `xml:"description,omitempty"`
	PubDate     string `xml:"pubDate,omitempty"`
}

// handleFeed serves the RSS feed of the latest published posts.
func (s *Server) handleFeed(c echo.Context) error {
	list, err := s.Backend.ListPosts(c.Request().Context(), backend.ListOptions{
		Status:  "published",
		PerPage: feedItemLimit,
		Sort:    "-publishedAt",
	})
	if err != nil {
		return err
	}

	site := s.Settings.Site
	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title:       site.Title,
			Link:        site.BaseURL,
			Description: site.Tagline,
		},
	}

	for i := range list.Items {
		post := &list.Items[i]
		item := rssItem{
			Title:       post.Title,
			Link:        site.BaseURL + "/posts/" + post.Slug,
			GUID:        site.BaseURL + "/posts/" + post.Slug,
			Description: post.Excerpt,
		}
		if post.PublishedAt != nil {
			item.PubDate = post.PublishedAt.Format(time.RFC1123Z)
		}
		feed.Channel.Items = append(feed.Channel.Items, item)
	}

	out, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return err
	}

	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8",
		append([]byte(xml.Header), out...))
}
