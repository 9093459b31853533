package fetch

import "sync"

// HeaderProfile is one realistic browser identity used for direct retrieval.
type HeaderProfile struct {
	Name    string
	Headers map[string]string
}

// Sites that block one browser identity often let another through, so the
// direct fetcher walks these in order. Keep desktop first: it is the least
// suspicious for classified-ad sites.
var defaultProfiles = []HeaderProfile{
	{
		Name: "desktop-chrome",
		Headers: map[string]string{
			"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
			"Accept-Language": "bs-BA,bs;q=0.9,hr;q=0.8,en-US;q=0.7,en;q=0.6",
			"Cache-Control":   "no-cache",
		},
	},
	{
		Name: "mobile-safari",
		Headers: map[string]string{
			"User-Agent":      "Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "bs-BA,bs;q=0.9,en;q=0.7",
		},
	},
	{
		Name: "desktop-firefox",
		Headers: map[string]string{
			"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "hr-HR,hr;q=0.9,en-US;q=0.6,en;q=0.5",
		},
	},
}

// profileSupplier hands out header profiles round-robin so that repeated
// imports do not always open with the same identity.
type profileSupplier struct {
	profiles []HeaderProfile
	current  int
	mutex    sync.Mutex
}

func newProfileSupplier(profiles []HeaderProfile) *profileSupplier {
	if len(profiles) == 0 {
		profiles = defaultProfiles
	}
	return &profileSupplier{profiles: profiles}
}

// Ordered returns all profiles starting from the current rotation position
// and advances the position by one.
func (p *profileSupplier) Ordered() []HeaderProfile {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	ordered := make([]HeaderProfile, 0, len(p.profiles))
	for i := 0; i < len(p.profiles); i++ {
		ordered = append(ordered, p.profiles[(p.current+i)%len(p.profiles)])
	}
	p.current = (p.current + 1) % len(p.profiles)

	return ordered
}
