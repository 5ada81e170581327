// Package panel drives floating panels (popups, menus and tooltips) through
// their open/close lifecycle, including hover intent, keyboard dismissal and
// placement via the position package.
package panel
