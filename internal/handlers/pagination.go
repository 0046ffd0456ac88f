package handlers

import (
	"errors"
	"strconv"

	"renthub/internal/rentals"
)

var errInvalidPagination = errors.New("invalid pagination params")

func parsePaginationParams(pageStr, limitStr string) (int64, int64, error) {
	page := int64(1)
	limit := int64(20)

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, errInvalidPagination
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 || l > 100 {
			return 0, 0, errInvalidPagination
		}
		limit = l
	}

	if _, ok := (rentals.Page{Number: page, Limit: limit}).Skip(); !ok {
		return 0, 0, errInvalidPagination
	}
	return page, limit, nil
}

// pageFromQuery paginates only when both page and limit are given.
func pageFromQuery(pageStr, limitStr string) (rentals.Page, error) {
	if pageStr == "" || limitStr == "" {
		return rentals.Page{}, nil
	}
	page, limit, err := parsePaginationParams(pageStr, limitStr)
	if err != nil {
		return rentals.Page{}, err
	}
	return rentals.Page{Number: page, Limit: limit}, nil
}
