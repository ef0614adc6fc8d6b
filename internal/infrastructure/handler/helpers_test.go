package handler

import (
	"github.com/stretchr/testify/mock"
)

var (
	anyCtx     = mock.Anything
	anyReading = mock.AnythingOfType("*entity.RateReading")
)
