package canvas

import (
	"time"

	"github.com/google/uuid"
)

type UuidGenerator struct{}

func NewUuidGenerator() UuidGenerator {
	return UuidGenerator{}
}

func (UuidGenerator) Generate() string {
	return uuid.NewString()
}

type IntervalTickerCreator struct{}

func NewIntervalTickerCreator() IntervalTickerCreator {
	return IntervalTickerCreator{}
}

func (IntervalTickerCreator) Create(duration time.Duration) <-chan time.Time {
	return time.NewTicker(duration).C
}
