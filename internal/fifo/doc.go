// Package fifo implements realized-profit attribution for individual
// trades using FIFO cost-basis accounting.
//
// Trades are grouped by market+outcome. Within a group, buys fold into
// a running weighted-average cost; each sell, oldest first, consumes
// inventory at that average and realizes (sellPrice - avgCost) × size.
// Sells without buy inventory stay unattributed.
package fifo
