package catalog

import (
	"github.com/bookshelfdev/bookshelf/internal/domain"
)

// MapBooks converts catalog volumes to domain books
func MapBooks(volumes []Volume) []domain.Book {
	books := make([]domain.Book, 0, len(volumes))
	for _, v := range volumes {
		books = append(books, mapBook(v))
	}
	return books
}

func mapBook(v Volume) domain.Book {
	info := v.VolumeInfo

	book := domain.Book{
		ID:            v.ID,
		Title:         info.Title,
		Authors:       info.Authors,
		Description:   info.Description,
		PublishedDate: info.PublishedDate,
		Publisher:     info.Publisher,
		PageCount:     info.PageCount,
		Categories:    info.Categories,
	}

	if info.AverageRating != nil {
		rating := *info.AverageRating
		book.AverageRating = &rating
	}

	if info.ImageLinks != nil {
		book.CoverURL = info.ImageLinks.Thumbnail
		if book.CoverURL == "" {
			book.CoverURL = info.ImageLinks.SmallThumbnail
		}
	}

	for _, ident := range info.IndustryIdentifiers {
		switch ident.Type {
		case "ISBN_10":
			book.ISBN10 = ident.Identifier
		case "ISBN_13":
			book.ISBN13 = ident.Identifier
		}
	}

	return book
}
