// Package engine holds the inventory decision rules: canonical batch
// ordering, batch allocation with expiry urgency, reorder arithmetic, ABC
// classification and demand forecasting.
//
// Everything here is a pure function over caller-supplied data. The caller
// passes "today" explicitly; nothing in this package reads the clock or
// touches storage.
package engine
