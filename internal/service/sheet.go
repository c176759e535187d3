package service

import (
	"context"
	"io"
	"strconv"
	"strings"

	"go-gin-ecommerce/internal/core/apperr"
	"go-gin-ecommerce/internal/domain"

	"github.com/tealeg/xlsx"
	"go.uber.org/zap"
)

var productSheetHeader = []string{
	"ID", "Title", "Price", "Discount", "Rating", "Status", "Categories", "Images", "CreatedAt", "UpdatedAt",
}

// ExportProducts writes every live product as one xlsx sheet.
func (s *ProductService) ExportProducts(ctx context.Context, w io.Writer) error {
	products, err := s.List(ctx, domain.ListQuery{})
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return err
	}
	header := sheet.AddRow()
	for _, h := range productSheetHeader {
		header.AddCell().SetValue(h)
	}
	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Title)
		row.AddCell().SetFloat(p.Price)
		row.AddCell().SetFloat(p.Discount)
		row.AddCell().SetInt(p.Rating)
		row.AddCell().SetValue(string(p.Status))

		titles := make([]string, 0, len(p.Categories))
		for _, c := range p.Categories {
			titles = append(titles, c.Title)
		}
		row.AddCell().SetValue(strings.Join(titles, ", "))

		urls := make([]string, 0, len(p.Images))
		for _, f := range p.Images {
			urls = append(urls, f.PrivateURL)
		}
		row.AddCell().SetValue(strings.Join(urls, ", "))
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return file.Write(w)
}

type ImportReport struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// ImportProducts reads the first sheet in the layout ExportProducts writes.
// Rows naming a live product id update it, other rows create a product.
// Categories and images are left alone. Rows that fail to parse or save are
// counted as skipped.
func (s *ProductService) ImportProducts(ctx context.Context, r io.ReaderAt, size int64) (ImportReport, error) {
	var rep ImportReport
	book, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return rep, apperr.Wrap(apperr.KindValidation, err, "could not read spreadsheet")
	}
	if len(book.Sheets) == 0 || len(book.Sheets[0].Rows) < 2 {
		return rep, apperr.Validation("spreadsheet is empty or has no header row")
	}
	for i, row := range book.Sheets[0].Rows[1:] {
		id, in, ok := productFromRow(row)
		if !ok {
			rep.Skipped++
			continue
		}
		if id != "" {
			if _, err := s.Update(ctx, id, in); err == nil {
				rep.Updated++
				continue
			} else if !apperr.Is(err, apperr.KindNotFound) {
				s.log.Warn("import row", zap.Int("row", i+2), zap.Error(err))
				rep.Skipped++
				continue
			}
		}
		if _, err := s.Save(ctx, in); err != nil {
			s.log.Warn("import row", zap.Int("row", i+2), zap.Error(err))
			rep.Skipped++
			continue
		}
		rep.Created++
	}
	s.log.Info("products imported", zap.Int("created", rep.Created), zap.Int("updated", rep.Updated), zap.Int("skipped", rep.Skipped))
	return rep, nil
}

func productFromRow(row *xlsx.Row) (string, *ProductInput, bool) {
	get := func(i int) string {
		if i < len(row.Cells) {
			return strings.TrimSpace(row.Cells[i].String())
		}
		return ""
	}
	in := &ProductInput{Title: get(1), Status: get(5)}
	if in.Title == "" {
		return "", nil, false
	}
	var err error
	if v := get(2); v != "" {
		if in.Price, err = strconv.ParseFloat(v, 64); err != nil {
			return "", nil, false
		}
	}
	if v := get(3); v != "" {
		if in.Discount, err = strconv.ParseFloat(v, 64); err != nil {
			return "", nil, false
		}
	}
	if v := get(4); v != "" {
		if in.Rating, err = strconv.Atoi(v); err != nil {
			return "", nil, false
		}
	}
	return get(0), in, true
}
