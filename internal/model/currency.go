package model

// Rates is the payload served by the console's currency integration
// endpoint: conversion rates against a base currency.
type Rates struct {
	Base   string             `json:"base"`
	Values map[string]float64 `json:"values"`
}
