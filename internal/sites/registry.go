package sites

import (
	"time"
)

// AllSources returns the supported sources in default search order.
func AllSources() []Source {
	return []Source{
		Indeed{},
		Glassdoor{},
		CareerBuilder{},
		GoogleJobs{},
		BrighterMonday{},
		RemoteOK{},
		WeWorkRemotely{},
	}
}

// NewAdapters builds one adapter per supported source, sharing the fetcher
// and politeness settings.
func NewAdapters(fetcher Fetcher, pageCap int, delayMin, delayMax time.Duration) []*Adapter {
	sources := AllSources()
	adapters := make([]*Adapter, 0, len(sources))
	for _, source := range sources {
		adapters = append(adapters, NewAdapter(source, fetcher, pageCap, delayMin, delayMax))
	}
	return adapters
}
