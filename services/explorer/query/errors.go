package query

import (
	"net/http"
	"strconv"
)

type errStatusNotOK int

func (e errStatusNotOK) Error() string {
	return "non-2xx HTTP status code: " + http.StatusText(int(e))
}

type errInvalidResponse string

func (e errInvalidResponse) Error() string {
	return "invalid JSON in query response: " + string(e)
}

type errResponseTooLarge int64

func (e errResponseTooLarge) Error() string {
	return "query response exceeds " + strconv.FormatInt(int64(e), 10) + " bytes"
}
