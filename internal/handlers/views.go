package handlers

import (
	"time"

	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/pagination"
	"github.com/samber/lo"
)

type commentView struct {
	ID      uint                `json:"id"`
	Text    string              `json:"text"`
	Created time.Time           `json:"created"`
	Author  *models.UserCompact `json:"author"`
}

func postView(p models.Post) models.PostView {
	v := models.PostView{
		ID:      p.ID,
		Text:    p.Text,
		PubDate: p.PubDate,
		Group:   p.Group,
	}
	if p.Author != nil {
		v.Author = p.Author.ToCompact()
	}
	if p.Image != nil {
		v.ImageURL = APIPrefix + "/media/" + *p.Image
	}
	return v
}

func postPage(p pagination.Page[models.Post]) pagination.Page[models.PostView] {
	return pagination.Map(p, postView)
}

func commentViews(comments []models.Comment) []commentView {
	return lo.Map(comments, func(c models.Comment, _ int) commentView {
		v := commentView{ID: c.ID, Text: c.Text, Created: c.Created}
		if c.Author != nil {
			v.Author = c.Author.ToCompact()
		}
		return v
	})
}
