package api

// Raw wire types for the data-API endpoints. The upstream payloads are
// loosely typed: numerics arrive as JSON numbers or strings depending
// on the endpoint, and several logical fields go by more than one name.
// All of that is absorbed here and in convert.go so the engine only
// ever sees the typed structs in internal/model.

// rawOpenPosition from GET /positions.
type rawOpenPosition struct {
	Asset        string      `json:"asset"`
	ConditionID  string      `json:"conditionId"`
	Title        string      `json:"title"`
	Outcome      string      `json:"outcome"`
	Size         flexDecimal `json:"size"`
	AvgPrice     flexDecimal `json:"avgPrice"`
	InitialValue flexDecimal `json:"initialValue"`
	CurrentValue flexDecimal `json:"currentValue"`
	CashPnl      flexDecimal `json:"cashPnl"`
	PercentPnl   flexDecimal `json:"percentPnl"`
}

// rawClosedPosition from GET /closed-positions.
type rawClosedPosition struct {
	Title       string      `json:"title"`
	Outcome     string      `json:"outcome"`
	RealizedPnl flexDecimal `json:"realizedPnl"`
	EndDate     string      `json:"endDate"` // ISO 8601
}

// rawActivityEvent from GET /activity. Heterogeneous: TRADE events
// carry side/size/price, REDEEM events carry a payout amount, other
// types are ignored. Amount and size each appear under two names
// depending on the event type.
type rawActivityEvent struct {
	Type      string   `json:"type"`
	Timestamp flexTime `json:"timestamp"` // seconds or milliseconds
	Side      string   `json:"side"`
	Title     string   `json:"title"`
	Outcome   string   `json:"outcome"`

	Size               flexDecimal `json:"size"`
	OutcomeTokenAmount flexDecimal `json:"outcomeTokenAmount"`
	Price              flexDecimal `json:"price"`
	OutcomeTokenPrice  flexDecimal `json:"outcomeTokenPrice"`
	UsdcSize           flexDecimal `json:"usdcSize"`
	Amount             flexDecimal `json:"amount"`

	TransactionHash string `json:"transactionHash"`
}

// rawSubgraphPosition from the userPositions GraphQL query. All numeric
// fields are fixed-point integer strings scaled by the collateral
// scale (1e6).
type rawSubgraphPosition struct {
	TokenID     string `json:"tokenId"`
	RealizedPnl string `json:"realizedPnl"`
	AvgPrice    string `json:"avgPrice"`
	TotalBought string `json:"totalBought"`
}

// graphQLRequest is the POST body for subgraph queries.
type graphQLRequest struct {
	Query string `json:"query"`
}

// userPositionsResponse is the subgraph response envelope.
type userPositionsResponse struct {
	Data struct {
		UserPositions []rawSubgraphPosition `json:"userPositions"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}
