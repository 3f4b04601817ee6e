package board

import "time"

type ticker struct{}

func (t ticker) Create(duration time.Duration) <-chan time.Time {
	return time.NewTicker(duration).C
}

func NewTickerGen() PeriodicTickerChannelCreator {
	return ticker{}
}
