package riot

import "strings"

// Riot splits its API across platform hosts (summoner, spectator) and
// continent hosts (account, match). Players configure a platform region;
// everything else is derived from these tables.

var regionToPlatform = map[string]string{
	"na1": "na1", "euw1": "euw1", "eun1": "eun1", "kr": "kr",
	"br1": "br1", "jp1": "jp1", "la1": "la1", "la2": "la2",
	"oc1": "oc1", "tr1": "tr1", "ru": "ru",
}

var regionToContinent = map[string]string{
	"na1": "americas", "br1": "americas", "la1": "americas", "la2": "americas",
	"euw1": "europe", "eun1": "europe", "tr1": "europe", "ru": "europe",
	"kr": "asia", "jp1": "asia", "oc1": "sea",
}

var regionToDefaultTag = map[string]string{
	"na1": "NA1", "euw1": "EUW1", "eun1": "EUN1", "kr": "KR",
	"br1": "BR1", "jp1": "JP1", "la1": "LA1", "la2": "LA2",
	"oc1": "OC1", "tr1": "TR1", "ru": "RU",
}

// NormalizeRegion lowercases the region and falls back to na1 for anything
// the routing tables do not know.
func NormalizeRegion(region string) string {
	region = strings.ToLower(strings.TrimSpace(region))
	if _, ok := regionToPlatform[region]; !ok {
		return "na1"
	}
	return region
}

// Platform returns the platform routing value for a region.
func Platform(region string) string {
	if p, ok := regionToPlatform[NormalizeRegion(region)]; ok {
		return p
	}
	return "na1"
}

// Continent returns the continent routing value for a region.
func Continent(region string) string {
	if c, ok := regionToContinent[NormalizeRegion(region)]; ok {
		return c
	}
	return "americas"
}

// DefaultTag returns the tag substituted when a player is looked up without
// one, e.g. "NA1" for na1.
func DefaultTag(region string) string {
	if t, ok := regionToDefaultTag[NormalizeRegion(region)]; ok {
		return t
	}
	return "NA1"
}
