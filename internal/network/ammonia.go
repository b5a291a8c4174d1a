package network

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"arcrun/internal/overlay"
)

// AmmoniaParams are the techno-economic assumptions for one injected
// component. Zero values fall back to the defaults below.
type AmmoniaParams struct {
	Efficiency   float64
	CapitalCost  float64
	MarginalCost float64
	Lifetime     float64
	StandingLoss float64
}

// AmmoniaConfig drives the green-ammonia injection
// (custom.green_ammonia in the scenario overlay).
type AmmoniaConfig struct {
	Enable       bool
	CountryCode  string
	Latitude     *float64
	Longitude    *float64
	BusSubstring string

	CarrierAmmonia string // NH3 store carrier
	CarrierToStore string // electrolyser carrier
	CarrierToPower string // ammonia CCGT carrier

	Electrolyser AmmoniaParams
	Storage      AmmoniaParams
	CCGT         AmmoniaParams
}

// Defaults matching the techno-economic assumptions in the scenario
// override files.
func defaultAmmoniaConfig() AmmoniaConfig {
	return AmmoniaConfig{
		CountryCode:    "ES",
		CarrierAmmonia: "NH3",
		CarrierToStore: "NH3-electrolyser",
		CarrierToPower: "NH3-power",
		Electrolyser:   AmmoniaParams{Efficiency: 0.6, CapitalCost: 7.5e5, MarginalCost: 0.5, Lifetime: 20},
		Storage:        AmmoniaParams{CapitalCost: 1.5e5},
		CCGT:           AmmoniaParams{Efficiency: 0.55, CapitalCost: 9e5, MarginalCost: 2.5, Lifetime: 25},
	}
}

// AmmoniaFromConfig extracts the green-ammonia settings from the merged
// scenario configuration.
func AmmoniaFromConfig(doc overlay.Document) AmmoniaConfig {
	cfg := defaultAmmoniaConfig()

	if v, ok := doc.Lookup("custom", "green_ammonia", "enable"); ok {
		if b, isBool := v.(bool); isBool {
			cfg.Enable = b
		}
	}
	if v, ok := doc.Lookup("custom", "green_ammonia", "country_code"); ok {
		if s, isStr := v.(string); isStr && s != "" {
			cfg.CountryCode = s
		}
	}
	if v, ok := doc.Lookup("custom", "green_ammonia", "location", "latitude"); ok {
		if f, isNum := overlay.Number(v); isNum {
			cfg.Latitude = &f
		}
	}
	if v, ok := doc.Lookup("custom", "green_ammonia", "location", "longitude"); ok {
		if f, isNum := overlay.Number(v); isNum {
			cfg.Longitude = &f
		}
	}
	if v, ok := doc.Lookup("custom", "green_ammonia", "location", "bus_substring"); ok {
		if s, isStr := v.(string); isStr {
			cfg.BusSubstring = s
		}
	}

	readCarrier(doc, "ammonia", &cfg.CarrierAmmonia)
	readCarrier(doc, "to_store", &cfg.CarrierToStore)
	readCarrier(doc, "to_power", &cfg.CarrierToPower)

	readParams(doc, "electrolyser", &cfg.Electrolyser)
	readParams(doc, "storage", &cfg.Storage)
	readParams(doc, "ccgt", &cfg.CCGT)

	return cfg
}

func readCarrier(doc overlay.Document, key string, dst *string) {
	if v, ok := doc.Lookup("custom", "green_ammonia", "carriers", key); ok {
		if s, isStr := v.(string); isStr && s != "" {
			*dst = s
		}
	}
}

func readParams(doc overlay.Document, section string, dst *AmmoniaParams) {
	read := func(key string, field *float64) {
		if v, ok := doc.Lookup("custom", "green_ammonia", section, key); ok {
			if f, isNum := overlay.Number(v); isNum {
				*field = f
			}
		}
	}
	read("efficiency", &dst.Efficiency)
	read("capital_cost", &dst.CapitalCost)
	read("marginal_cost", &dst.MarginalCost)
	read("lifetime", &dst.Lifetime)
	read("standing_loss", &dst.StandingLoss)
}

// AddGreenAmmonia injects the electrolyser/store/CCGT chain at the bus
// closest to the configured location inside the configured country. The
// injection is idempotent: components already present are left as they are.
// Returns the base bus the chain was attached to.
func (n *Network) AddGreenAmmonia(cfg AmmoniaConfig) (string, error) {
	if !cfg.Enable {
		return "", nil
	}

	baseBus, err := n.closestBus(cfg.CountryCode, cfg.Latitude, cfg.Longitude, cfg.BusSubstring)
	if err != nil {
		return "", err
	}

	n.EnsureCarrier(cfg.CarrierAmmonia)
	n.EnsureCarrier(cfg.CarrierToStore)
	n.EnsureCarrier(cfg.CarrierToPower)

	nh3Bus := n.addAmmoniaBus(baseBus, cfg.CarrierAmmonia)
	n.addElectrolyser(baseBus, nh3Bus, cfg)
	n.addStore(nh3Bus, cfg)
	n.addCCGT(baseBus, nh3Bus, cfg)

	return baseBus, nil
}

// closestBus picks the bus inside country closest to the given lat/lon.
// When no coordinates are configured the first candidate wins. An optional
// substring narrows the candidates when it matches at least one bus.
func (n *Network) closestBus(country string, lat, lon *float64, substring string) (string, error) {
	var candidates []Row
	for _, r := range n.Buses.Rows {
		if r["country"] == country {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no buses found for country %q; was the network built with it in the countries list?", country)
	}

	if substring != "" {
		var narrowed []Row
		for _, r := range candidates {
			if strings.Contains(r["name"], substring) {
				narrowed = append(narrowed, r)
			}
		}
		if len(narrowed) > 0 {
			candidates = narrowed
		}
	}

	if lat == nil || lon == nil {
		return candidates[0]["name"], nil
	}

	best := candidates[0]["name"]
	bestDist := math.Inf(1)
	for _, r := range candidates {
		x, xOK := r.Float("x")
		y, yOK := r.Float("y")
		if !xOK || !yOK {
			continue
		}
		// y is latitude, x is longitude in the framework's bus table
		d := math.Hypot(y-*lat, x-*lon)
		if d < bestDist {
			bestDist = d
			best = r["name"]
		}
	}
	return best, nil
}

func (n *Network) addAmmoniaBus(baseBus, carrier string) string {
	label := baseBus + "-NH3"
	if n.Buses.Has(label) {
		return label
	}

	base, _ := n.Buses.Get(baseBus)
	n.Buses.Append(Row{
		"name":        label,
		"x":           base["x"],
		"y":           base["y"],
		"country":     base["country"],
		"carrier":     carrier,
		"sub_network": base["sub_network"],
	})
	return label
}

func (n *Network) addElectrolyser(baseBus, nh3Bus string, cfg AmmoniaConfig) {
	label := baseBus + "-NH3-electrolyser"
	if n.Links.Has(label) {
		return
	}
	n.Links.Append(Row{
		"name":             label,
		"bus0":             baseBus,
		"bus1":             nh3Bus,
		"carrier":          cfg.CarrierToStore,
		"efficiency":       ftoa(cfg.Electrolyser.Efficiency),
		"capital_cost":     ftoa(cfg.Electrolyser.CapitalCost),
		"marginal_cost":    ftoa(cfg.Electrolyser.MarginalCost),
		"lifetime":         ftoa(cfg.Electrolyser.Lifetime),
		"p_nom_extendable": "True",
	})
}

func (n *Network) addStore(nh3Bus string, cfg AmmoniaConfig) {
	label := nh3Bus + "-store"
	if n.Stores.Has(label) {
		return
	}
	n.Stores.Append(Row{
		"name":             label,
		"bus":              nh3Bus,
		"carrier":          cfg.CarrierAmmonia,
		"e_cyclic":         "True",
		"standing_loss":    ftoa(cfg.Storage.StandingLoss),
		"capital_cost":     ftoa(cfg.Storage.CapitalCost),
		"e_nom_extendable": "True",
	})
}

func (n *Network) addCCGT(baseBus, nh3Bus string, cfg AmmoniaConfig) {
	label := baseBus + "-NH3-CCGT"
	if n.Links.Has(label) {
		return
	}
	n.Links.Append(Row{
		"name":             label,
		"bus0":             nh3Bus,
		"bus1":             baseBus,
		"carrier":          cfg.CarrierToPower,
		"efficiency":       ftoa(cfg.CCGT.Efficiency),
		"capital_cost":     ftoa(cfg.CCGT.CapitalCost),
		"marginal_cost":    ftoa(cfg.CCGT.MarginalCost),
		"lifetime":         ftoa(cfg.CCGT.Lifetime),
		"p_nom_extendable": "True",
	})
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
