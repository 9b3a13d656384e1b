// Package repository handles all interactions with persisted state.
//
// The book collection lives in a single JSON file; the repository loads it
// whole, saves it whole, and seeds it on first start, abstracting file
// handling away from the service layer.
package repository
