package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"artist-management/internal/domain"
)

// ImportColumns 上传 CSV 必须包含的表头，顺序不限
var ImportColumns = []string{
	"first_name", "last_name", "email", "password", "phone",
	"dob", "gender", "address", "first_release_year", "no_of_albums_released",
}

var exportColumns = []string{
	"id", "user_id", "first_name", "last_name", "email", "phone", "dob",
	"gender", "address", "first_release_year", "no_of_albums_released",
	"created_at", "updated_at",
}

// ImportRow 已解析的一行；Password 是明文，入库前再哈希
type ImportRow struct {
	Line     int
	Password string
	Artist   domain.NewArtist
}

func ParseArtistCSV(r io.Reader) ([]ImportRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty csv", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range ImportColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", domain.ErrInvalidInput, col)
		}
	}

	var rows []ImportRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		line, _ := cr.FieldPos(0)
		if blank(rec) {
			continue
		}
		row, err := parseRow(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrInvalidInput, line, err)
		}
		row.Line = line
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: csv has no data rows", domain.ErrInvalidInput)
	}
	return rows, nil
}

func parseRow(rec []string, idx map[string]int) (ImportRow, error) {
	get := func(col string) string {
		i := idx[col]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	email := normalizeEmail(get("email"))
	if email == "" {
		return ImportRow{}, errors.New("email is required")
	}
	pw := get("password")
	if pw == "" {
		return ImportRow{}, errors.New("password is required")
	}
	dob, err := domain.ParseDate(get("dob"))
	if err != nil {
		return ImportRow{}, err
	}
	year, err := atoi(get("first_release_year"), "first_release_year")
	if err != nil {
		return ImportRow{}, err
	}
	albums, err := atoi(get("no_of_albums_released"), "no_of_albums_released")
	if err != nil {
		return ImportRow{}, err
	}
	return ImportRow{
		Password: pw,
		Artist: domain.NewArtist{
			User: domain.User{
				FirstName: get("first_name"),
				LastName:  get("last_name"),
				Email:     email,
				Role:      domain.RoleArtist,
				Phone:     get("phone"),
				DOB:       dob,
				Gender:    get("gender"),
				Address:   get("address"),
			},
			FirstReleaseYear:   year,
			NoOfAlbumsReleased: albums,
		},
	}, nil
}

func atoi(s, col string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", col, s)
	}
	return n, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// WriteArtistCSV 导出不含密码
func WriteArtistCSV(w io.Writer, rows []domain.ArtistView) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportColumns); err != nil {
		return err
	}
	for _, a := range rows {
		dob := ""
		if !a.DOB.IsZero() {
			dob = a.DOB.Format(time.DateOnly)
		}
		rec := []string{
			strconv.FormatInt(a.ID, 10),
			strconv.FormatInt(a.UserID, 10),
			a.FirstName,
			a.LastName,
			a.Email,
			a.Phone,
			dob,
			a.Gender,
			a.Address,
			strconv.Itoa(a.FirstReleaseYear),
			strconv.Itoa(a.NoOfAlbumsReleased),
			a.CreatedAt.UTC().Format(time.RFC3339),
			a.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportColumnsHeader CSV 模板表头行
func ImportColumnsHeader() string { return strings.Join(ImportColumns, ",") + "\n" }
