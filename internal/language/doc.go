// Package language maps provider locale hints onto the ISO 639-1 codes used
// as title name keys.
//
// Providers describe languages in different ways: TMDB sends ISO 639-1 codes
// and BCP 47 tags, OMDb sends English words, and ČSFD labels alternate titles
// with Czech country names. Everything funnels through ToISO2 or FromCountry.
package language
