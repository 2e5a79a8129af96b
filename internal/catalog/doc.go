// Package catalog persists the navigation index: one record per built doc
// carrying the page metadata consumed by sidebars and search clients.
package catalog
