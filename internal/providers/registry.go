package providers

import (
	"github.com/corrobor8/eatc/internal/config"
	"github.com/corrobor8/eatc/internal/httpx"
	"github.com/corrobor8/eatc/internal/scheduler"
)

// BuildAll constructs one adapter per upstream source and returns them as
// scheduler.Provider, wiring each adapter's credentials from cfg.APIKeys.
// This is the single place that knows every concrete adapter type, so
// internal/pipeline never imports adapter structs directly.
func BuildAll(client *httpx.Client, cfg *config.Config) []scheduler.Provider {
	return []scheduler.Provider{
		NewWikipedia(client),
		NewWikidata(client),
		NewTavily(client, cfg.APIKeys["tavily"]),
		NewBrave(client, cfg.APIKeys["brave"]),
		NewSerper(client, cfg.APIKeys["serper"]),
		NewSerpAPI(client, cfg.APIKeys["serpapi"]),
		NewNominatim(client),
		NewOverpass(client),
		NewNPS(client, cfg.APIKeys["nps"]),
		NewOpenAlex(client, cfg.ContactEmail),
		NewCrossref(client),
		NewPubMed(client),
		NewEuropePMC(client),
		NewArxiv(client),
		NewWorldBank(client),
		NewOECD(client),
		NewIMF(client),
		NewEurostat(client),
		NewFRED(client, cfg.APIKeys["fred"]),
		NewWayback(client),
		NewUnpaywall(client, cfg.UnpaywallEmail),
		NewEDGAR(client),
	}
}
