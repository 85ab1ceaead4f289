// Package api provides the shared REST client used by every catalog source.
//
// Each source owns one Client configured with its base URL, default headers
// and rate limiter:
//   - CoinGecko:     https://api.coingecko.com/api/v3
//   - CoinMarketCap: https://pro-api.coinmarketcap.com/v1
//   - CoinPaprika:   https://api.coinpaprika.com/v1
//   - Foundico:      https://foundico.com/api/v1
//   - CryptoTotem:   https://cryptototem.com
//
// Requests are one-shot: the limiter gates each call and there is no retry.
package api
