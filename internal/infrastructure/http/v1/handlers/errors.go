package handlers

import "errors"

var errStoreClosed = errors.New("record store is not open")
