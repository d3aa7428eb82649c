// Command tokenfmt converts token amounts between raw and human-readable
// form on the command line, without a registry: decimals are passed
// explicitly.
//
//	tokenfmt -raw 10500000 -decimals 6 -symbol USDC
//	tokenfmt -human 75.5 -decimals 6
//	tokenfmt -cents 1050
package main

import (
	"flag"
	"fmt"
	"math/big"
	"os"

	"github.com/shopspring/decimal"

	"github.com/adiwr/token-display/internal/domain/amount"
)

func main() {
	var (
		rawFlag      = flag.String("raw", "", "raw integer amount to convert to human-readable form")
		humanFlag    = flag.String("human", "", "human-readable amount to convert to raw form")
		centsFlag    = flag.String("cents", "", "minor-unit currency amount to format as dollars")
		decimalsFlag = flag.Uint("decimals", 18, "scaling exponent between raw and human form (0-18)")
		symbolFlag   = flag.String("symbol", "", "asset symbol appended to the display string")
	)
	flag.Parse()

	if *decimalsFlag > 18 {
		fatalf("decimals must be in [0,18], got %d", *decimalsFlag)
	}
	decimals := uint8(*decimalsFlag)

	switch {
	case *rawFlag != "":
		raw, ok := new(big.Int).SetString(*rawFlag, 10)
		if !ok {
			fatalf("invalid raw amount %q", *rawFlag)
		}
		human := amount.RawToHuman(raw, decimals)
		fmt.Printf("raw:     %s\n", raw)
		fmt.Printf("human:   %s\n", human)
		fmt.Printf("display: %s\n", amount.FormatReadable(human, *symbolFlag, amount.Options{AddSymbol: *symbolFlag != ""}))

	case *humanFlag != "":
		raw, err := amount.HumanToRaw(*humanFlag, decimals)
		if err != nil {
			fatalf("%v", err)
		}
		human := amount.RawToHuman(raw, decimals)
		fmt.Printf("human:   %s\n", human)
		fmt.Printf("raw:     %s\n", raw)
		fmt.Printf("display: %s\n", amount.FormatReadable(human, *symbolFlag, amount.Options{AddSymbol: *symbolFlag != ""}))

	case *centsFlag != "":
		cents, err := decimal.NewFromString(*centsFlag)
		if err != nil {
			fatalf("invalid cents amount %q", *centsFlag)
		}
		fmt.Printf("display: %s\n", amount.FormatCents(cents))

	default:
		flag.Usage()
		os.Exit(2)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "tokenfmt: "+format+"\n", args...)
	os.Exit(1)
}
