// Package mongostore persists canonical titles in MongoDB.
//
// It offers the same contract as the SQLite catalog: documents carry a
// normalized nameKeys array for name+year matches, a searchText field backing
// the text index used by fuzzy discovery, and one unique partial index per
// provider so an external id can belong to a single title.
package mongostore
