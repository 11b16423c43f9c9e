package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"greenville/internal/cartsync"
	"greenville/internal/config"
	"greenville/internal/dispatch"
	"greenville/internal/localcart"
	"greenville/internal/session"
)

// cartcli is an interactive shopping cart client against the API. The
// cart lives locally, survives restarts through the state file, and is
// pushed to the server while logged in.
func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stderr, "[cart] ", log.LstdFlags)

	sess := session.New(logger)
	client := cartsync.New(cfg.APIBaseURL, sess, logger)
	store := localcart.New(client, localcart.NewFilePersister(cfg.CartStateFile), logger)
	if err := store.Hydrate(); err != nil {
		logger.Fatalf("restore cart state: %v", err)
	}
	dispatcher := dispatch.New(store, sess, client, logger)
	defer dispatcher.Wait()

	fmt.Println("commands: add <product> [qty] [variant] | remove <product> [variant] | qty <product> <n> [variant] | coupon <code> | show | clear | login <email> <password> | logout | quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "quit" || args[0] == "exit" {
			return
		}
		run(args, store, sess, client)
	}
}

func run(args []string, store *localcart.Store, sess *session.Session, client *cartsync.Client) {
	ctx := context.Background()

	switch args[0] {
	case "add":
		if len(args) < 2 {
			fmt.Println("usage: add <product> [qty] [variant]")
			return
		}
		qty := 1
		if len(args) >= 3 {
			n, err := strconv.Atoi(args[2])
			if err != nil || n <= 0 {
				fmt.Println("quantity must be a positive number")
				return
			}
			qty = n
		}
		variant := ""
		if len(args) >= 4 {
			variant = args[3]
		}
		if err := store.AddItem(ctx, localcart.AddInput{ProductID: args[1], Quantity: qty, VariantID: variant}); err != nil {
			fmt.Println("add:", err)
		}
	case "remove":
		if len(args) < 2 {
			fmt.Println("usage: remove <product> [variant]")
			return
		}
		variant := ""
		if len(args) >= 3 {
			variant = args[2]
		}
		store.RemoveItem(args[1], variant)
	case "qty":
		if len(args) < 3 {
			fmt.Println("usage: qty <product> <n> [variant]")
			return
		}
		n, err := strconv.Atoi(args[2])
		if err != nil {
			fmt.Println("quantity must be a number")
			return
		}
		variant := ""
		if len(args) >= 4 {
			variant = args[3]
		}
		store.UpdateQuantity(args[1], n, variant)
	case "coupon":
		if len(args) < 2 {
			fmt.Println("usage: coupon <code>")
			return
		}
		store.ApplyCoupon(args[1])
	case "show":
		items := store.Items()
		if len(items) == 0 {
			fmt.Println("cart is empty")
			return
		}
		var totalCents int64
		for _, li := range items {
			label := li.Name
			if li.Variant != nil && li.Variant.Name != "" {
				label += " (" + li.Variant.Name + ")"
			}
			fmt.Printf("  %dx %s @ %d.%02d\n", li.Quantity, label, li.UnitPriceCents/100, li.UnitPriceCents%100)
			totalCents += li.UnitPriceCents * int64(li.Quantity)
		}
		fmt.Printf("  %d items, total %d.%02d\n", store.Count(), totalCents/100, totalCents%100)
		if c := store.Coupon(); c != "" {
			fmt.Println("  coupon:", c)
		}
	case "clear":
		store.Clear()
	case "login":
		if len(args) < 3 {
			fmt.Println("usage: login <email> <password>")
			return
		}
		token, err := client.Login(ctx, args[1], args[2])
		if err != nil {
			fmt.Println("login failed:", err)
			return
		}
		sess.Login(token)
		fmt.Println("logged in, cart merged with your saved cart")
	case "logout":
		sess.Logout()
	default:
		fmt.Println("unknown command:", args[0])
	}
}
