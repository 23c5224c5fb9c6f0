package catalog

import "github.com/shubham-shewale/stock-market-feed/pkg/models"

var stocks = []models.CatalogEntry{
	// US
	{Symbol: "NVDA", Name: "NVIDIA Corporation"},
	{Symbol: "AAPL", Name: "Apple Inc."},
	{Symbol: "GOOGL", Name: "Alphabet Inc."},
	{Symbol: "MSFT", Name: "Microsoft Corporation"},
	{Symbol: "AMZN", Name: "Amazon.com, Inc."},
	{Symbol: "META", Name: "Meta Platforms, Inc."},
	{Symbol: "AVGO", Name: "Broadcom Inc."},
	{Symbol: "TSLA", Name: "Tesla, Inc."},
	{Symbol: "NFLX", Name: "Netflix, Inc."},
	{Symbol: "ASML", Name: "ASML Holding N.V."},
	// India
	{Symbol: "RELIANCE", Name: "Reliance Industries Ltd"},
	{Symbol: "HDFCBANK", Name: "HDFC Bank Ltd"},
	{Symbol: "BHARTIARTL", Name: "Bharti Airtel Ltd"},
	{Symbol: "TCS", Name: "Tata Consultancy Services Ltd"},
	{Symbol: "ICICIBANK", Name: "ICICI Bank Ltd"},
	{Symbol: "SBIN", Name: "State Bank of India"},
	{Symbol: "INFY", Name: "Infosys Ltd"},
	{Symbol: "BAJFINANCE", Name: "Bajaj Finance Ltd"},
	{Symbol: "LT", Name: "Larsen and Toubro Ltd"},
	{Symbol: "HINDUNILVR", Name: "Hindustan Unilever Ltd"},
	{Symbol: "MARUTI", Name: "Maruti Suzuki India Ltd"},
	{Symbol: "ITC", Name: "ITC Ltd"},
	{Symbol: "HCLTECH", Name: "HCL Technologies Ltd"},
	{Symbol: "M&M", Name: "Mahindra and Mahindra Ltd"},
	{Symbol: "KOTAKBANK", Name: "Kotak Mahindra Bank Ltd"},
	{Symbol: "SUNPHARMA", Name: "Sun Pharmaceutical Industries Ltd"},
	{Symbol: "AXISBANK", Name: "Axis Bank Ltd"},
	{Symbol: "ULTRACEMCO", Name: "UltraTech Cement Ltd"},
	{Symbol: "TITAN", Name: "Titan Company Ltd"},
	{Symbol: "BAJAJFINSV", Name: "Bajaj Finserv Ltd"},
	{Symbol: "ADANIPORTS", Name: "Adani Ports and Special Economic Zone Ltd"},
	{Symbol: "NTPC", Name: "NTPC Ltd"},
	{Symbol: "ONGC", Name: "Oil and Natural Gas Corporation Ltd"},
	{Symbol: "BEL", Name: "Bharat Electronics Ltd"},
	{Symbol: "WIPRO", Name: "Wipro Ltd"},
	{Symbol: "JSWSTEEL", Name: "JSW Steel Ltd"},
	{Symbol: "ETERNAL", Name: "Eternal Ltd"},
	{Symbol: "ASIANPAINT", Name: "Asian Paints Ltd"},
	{Symbol: "ADANIENT", Name: "Adani Enterprises Ltd"},
	{Symbol: "BAJAJ-AUTO", Name: "Bajaj Auto Ltd"},
	{Symbol: "POWERGRID", Name: "Power Grid Corporation of India Ltd"},
	{Symbol: "NESTLEIND", Name: "Nestle India Ltd"},
	{Symbol: "COALINDIA", Name: "Coal India Ltd"},
	{Symbol: "TATASTEEL", Name: "Tata Steel Ltd"},
	{Symbol: "SBILIFE", Name: "SBI Life Insurance Company Ltd"},
	{Symbol: "EICHERMOT", Name: "Eicher Motors Ltd"},
	{Symbol: "INDIGO", Name: "Interglobe Aviation Ltd"},
	{Symbol: "GRASIM", Name: "Grasim Industries Ltd"},
	{Symbol: "JIOFIN", Name: "Jio Financial Services Ltd"},
	{Symbol: "HINDALCO", Name: "Hindalco Industries Ltd"},
}

// Stocks returns a copy of the built-in catalog.
func Stocks() []models.CatalogEntry {
	out := make([]models.CatalogEntry, len(stocks))
	copy(out, stocks)
	return out
}
