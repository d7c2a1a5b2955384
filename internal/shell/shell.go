// Package shell is the storefront's line-oriented front end. It reads one
// command per line and renders state back from the app's owners.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/app"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/auth"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/nav"
	"go.uber.org/zap"
)

// CancelWord aborts a multi-line form.
const CancelWord = "cancel"

var errQuit = errors.New("quit")

type command struct {
	usage string
	help  string
	run   func(ctx context.Context, args []string) error
}

type Shell struct {
	app    *app.App
	logger *zap.Logger

	in      *bufio.Scanner
	lines   chan string
	scanErr error
	start   sync.Once
	out     *syncWriter

	commands map[string]command
	order    []string

	bg sync.WaitGroup
}

// syncWriter serialises writes from the loop and background work.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, format, args...)
}

func New(a *app.App, in io.Reader, out io.Writer, logger *zap.Logger) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Shell{
		app:    a,
		logger: logger.Named("shell"),
		in:     bufio.NewScanner(in),
		lines:  make(chan string),
		out:    &syncWriter{w: out},
	}
	s.register()
	return s
}

func (s *Shell) register() {
	s.commands = map[string]command{}
	add := func(name, usage, help string, run func(context.Context, []string) error) {
		s.commands[name] = command{usage: usage, help: help, run: run}
		s.order = append(s.order, name)
	}

	add("products", "products", "show the catalog with the active filters", s.cmdProducts)
	add("search", "search [text]", "filter by name, description or brand", s.cmdSearch)
	add("category", "category <name|all>", "filter by category", s.cmdCategory)
	add("price", "price <range>", "filter by price: "+joinRanges(), s.cmdPrice)
	add("sort", "sort <key>", "sort by: "+joinSorts(), s.cmdSort)
	add("clear", "clear", "reset every filter", s.cmdClear)
	add("retry", "retry", "fetch the catalog again", s.cmdRetry)
	add("show", "show <id>", "fetch one product from the server", s.cmdShow)
	add("find", "find <text>", "search on the server", s.cmdFind)
	add("add", "add <id>", "add one unit to the cart", s.cmdAdd)
	add("qty", "qty <id> <n>", "set a line's quantity (0 removes)", s.cmdQty)
	add("remove", "remove <id>", "remove a line", s.cmdRemove)
	add("cart", "cart", "show the cart", s.cmdCart)
	add("checkout", "checkout", "fill in the checkout form and place the order", s.cmdCheckout)
	add("login", "login <email> <password>", "sign in", s.cmdLogin)
	add("register", "register", "create an account", s.cmdRegister)
	add("logout", "logout", "sign out", s.cmdLogout)
	add("whoami", "whoami", "show the signed-in user", s.cmdWhoami)
	add("orders", "orders", "list your orders", s.cmdOrders)
	add("recommend", "recommend <id>", "open the AI analysis for a product", s.cmdRecommend)
	add("close", "close", "close the AI analysis", s.cmdClose)
	add("ai-status", "ai-status", "check the AI service", s.cmdAIStatus)
	add("status", "status", "probe the remote API", s.cmdStatus)
	add("theme", "theme", "toggle dark mode", s.cmdTheme)
	add("help", "help", "list commands", s.cmdHelp)
	add("quit", "quit", "exit", func(context.Context, []string) error { return errQuit })
}

// Run applies the saved theme, loads the catalog in the background and
// processes commands until quit, end of input or ctx is done. Background
// work is waited for before returning.
func (s *Shell) Run(ctx context.Context) error {
	defer s.bg.Wait()

	if s.app.LoadPrefs().DarkMode {
		s.out.printf("Theme: dark\n")
	}
	s.background(func() { s.loadCatalog(ctx, false) })

	for {
		if ctx.Err() != nil {
			return nil
		}
		s.prompt()
		line, ok := s.readLine(ctx)
		if !ok {
			if ctx.Err() != nil {
				return nil
			}
			return s.scanErr
		}
		if err := s.Exec(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			s.out.printf("%s\n", err)
		}
	}
}

// Exec runs a single command line.
func (s *Shell) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name := strings.ToLower(fields[0])
	switch name {
	case "exit":
		name = "quit"
	case "ls":
		name = "products"
	}

	cmd, ok := s.commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q, type 'help'", fields[0])
	}
	return cmd.run(ctx, fields[1:])
}

// Wait blocks until background work has finished.
func (s *Shell) Wait() { s.bg.Wait() }

func (s *Shell) background(fn func()) {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		fn()
	}()
}

func (s *Shell) prompt() {
	who := "guest"
	if u := s.app.Session.Current(); u != nil {
		who = u.DisplayName()
	}
	s.out.printf("[%s %s | cart %d] > ", who, s.app.Nav.Current(), s.app.Cart.Totals().ItemCount)
}

// readLine returns the next input line. Input is pumped by a goroutine that
// is never waited for, so a pending read does not hold up cancellation.
func (s *Shell) readLine(ctx context.Context) (string, bool) {
	s.start.Do(func() {
		go func() {
			defer close(s.lines)
			for s.in.Scan() {
				s.lines <- s.in.Text()
			}
			s.scanErr = s.in.Err()
		}()
	})
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-s.lines:
		return strings.TrimSpace(line), ok
	}
}

// ask prompts for one form value. ok is false on cancel or end of input.
func (s *Shell) ask(ctx context.Context, label string) (string, bool) {
	s.out.printf("  %s: ", label)
	v, ok := s.readLine(ctx)
	if !ok || strings.EqualFold(v, CancelWord) {
		return "", false
	}
	return v, true
}

func parseID(args []string) (int64, error) {
	if len(args) < 1 {
		return 0, errors.New("missing product id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid product id %q", args[0])
	}
	return id, nil
}

func (s *Shell) cmdProducts(context.Context, []string) error {
	s.renderCatalog(s.app.Catalog.Snapshot())
	return nil
}

func (s *Shell) cmdSearch(_ context.Context, args []string) error {
	s.app.Catalog.SetSearch(strings.Join(args, " "))
	s.renderCatalog(s.app.Catalog.Snapshot())
	return nil
}

func (s *Shell) cmdCategory(_ context.Context, args []string) error {
	if len(args) == 0 {
		s.out.printf("Categories: %s\n", strings.Join(s.app.Catalog.Snapshot().Categories, ", "))
		return nil
	}
	s.app.Catalog.SetCategory(strings.Join(args, " "))
	s.renderCatalog(s.app.Catalog.Snapshot())
	return nil
}

func (s *Shell) cmdPrice(_ context.Context, args []string) error {
	if len(args) != 1 || !catalog.PriceRange(args[0]).Valid() {
		return fmt.Errorf("usage: price <%s>", joinRanges())
	}
	s.app.Catalog.SetPriceRange(catalog.PriceRange(args[0]))
	s.renderCatalog(s.app.Catalog.Snapshot())
	return nil
}

func (s *Shell) cmdSort(_ context.Context, args []string) error {
	if len(args) != 1 || !catalog.SortKey(args[0]).Valid() {
		return fmt.Errorf("usage: sort <%s>", joinSorts())
	}
	s.app.Catalog.SetSort(catalog.SortKey(args[0]))
	s.renderCatalog(s.app.Catalog.Snapshot())
	return nil
}

func (s *Shell) cmdClear(context.Context, []string) error {
	s.app.Catalog.ClearFilters()
	s.renderCatalog(s.app.Catalog.Snapshot())
	return nil
}

// loadCatalog fetches the catalog and reports the outcome. Nothing is
// printed when a newer load has replaced this one.
func (s *Shell) loadCatalog(ctx context.Context, render bool) {
	err := s.app.LoadCatalog(ctx)
	switch {
	case errors.Is(err, catalog.ErrStale):
		return
	case err != nil:
		s.out.printf("%s Type 'retry'.\n", catalog.LoadFailedMessage)
	case render:
		s.renderCatalog(s.app.Catalog.Snapshot())
	default:
		s.out.printf("Loaded %d products. Type 'products' to browse.\n", s.app.Catalog.Snapshot().Total)
	}
}

func (s *Shell) cmdRetry(ctx context.Context, _ []string) error {
	s.out.printf("Loading products...\n")
	s.background(func() { s.loadCatalog(ctx, true) })
	return nil
}

func (s *Shell) cmdShow(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	p, err := s.app.Products.Get(ctx, id)
	if err != nil {
		s.logger.Warn("get product failed", zap.Int64("product_id", id), zap.Error(err))
		return fmt.Errorf("product %d could not be loaded", id)
	}
	s.renderProduct(*p)
	return nil
}

func (s *Shell) cmdFind(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: find <text>")
	}
	products, err := s.app.Products.Search(ctx, strings.Join(args, " "))
	if err != nil {
		s.logger.Warn("search products failed", zap.Error(err))
		return errors.New("search failed, please try again")
	}
	if len(products) == 0 {
		s.out.printf("No products found.\n")
		return nil
	}
	for _, p := range products {
		s.renderRow(p)
	}
	return nil
}

func (s *Shell) cmdAdd(_ context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	line, err := s.app.AddToCart(id)
	if err != nil {
		return err
	}
	s.out.printf("Added %s (x%d).\n", line.Name, line.Quantity)
	return nil
}

func (s *Shell) cmdQty(_ context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return errors.New("usage: qty <id> <n>")
	}
	q, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid quantity %q", args[1])
	}
	s.app.Cart.UpdateQuantity(id, q)
	s.renderCart()
	return nil
}

func (s *Shell) cmdRemove(_ context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	s.app.Cart.Remove(id)
	s.renderCart()
	return nil
}

func (s *Shell) cmdCart(context.Context, []string) error {
	s.app.Nav.Navigate(nav.RouteCart)
	s.renderCart()
	return nil
}

func (s *Shell) cmdCheckout(ctx context.Context, _ []string) error {
	if err := s.app.BeginCheckout(); err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			s.out.printf("Your cart is empty. Add some items before checking out!\n")
			s.app.Nav.Navigate(nav.RouteCatalog)
			return nil
		}
		return err
	}

	s.renderCart()
	s.out.printf("Enter your details (type '%s' to stop).\n", CancelWord)
	pending := checkout.Fields
	for {
		for _, field := range pending {
			v, ok := s.ask(ctx, fieldLabel(field))
			if !ok {
				s.out.printf("Checkout cancelled.\n")
				s.app.Nav.Navigate(nav.RouteCart)
				return nil
			}
			if err := s.app.Checkout.Set(field, v); err != nil {
				return err
			}
		}

		receipt, err := s.app.Checkout.Submit(ctx)
		if err == nil {
			s.renderReceipt(receipt)
			return nil
		}

		var ve *checkout.ValidationError
		if !errors.As(err, &ve) {
			s.out.printf("%s\n", s.app.Checkout.View().Error)
			return nil
		}
		s.out.printf("%s\n", err)
		pending = append(append([]checkout.Field(nil), ve.Missing...), ve.TooLong...)
	}
}

func (s *Shell) cmdLogin(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: login <email> <password>")
	}
	s.app.Nav.Navigate(nav.RouteLogin)
	if err := s.app.Auth.Login(ctx, args[0], args[1]); err != nil {
		if errors.Is(err, auth.ErrBusy) {
			return err
		}
		s.out.printf("%s\n", s.app.Auth.View().Error)
		return nil
	}
	s.out.printf("Welcome, %s.\n", s.app.Session.Current().DisplayName())
	return nil
}

func (s *Shell) cmdRegister(ctx context.Context, _ []string) error {
	s.app.Nav.Navigate(nav.RouteRegister)

	var form auth.RegistrationForm
	for _, f := range []struct {
		label string
		dst   *string
	}{
		{"Full name", &form.Name},
		{"Email", &form.Email},
		{"Password", &form.Password},
		{"Confirm password", &form.ConfirmPassword},
	} {
		v, ok := s.ask(ctx, f.label)
		if !ok {
			s.out.printf("Registration cancelled.\n")
			return nil
		}
		*f.dst = v
	}

	if err := s.app.Auth.Register(ctx, form); err != nil {
		if errors.Is(err, auth.ErrBusy) {
			return err
		}
		s.out.printf("%s\n", s.app.Auth.View().Error)
		return nil
	}
	s.out.printf("%s\n", s.app.Auth.View().Success)
	return nil
}

func (s *Shell) cmdLogout(context.Context, []string) error {
	s.app.Auth.Logout()
	s.out.printf("Signed out.\n")
	return nil
}

func (s *Shell) cmdWhoami(context.Context, []string) error {
	u := s.app.Session.Current()
	if u == nil {
		s.out.printf("Not signed in.\n")
		return nil
	}
	s.out.printf("%s <%s>\n", u.DisplayName(), u.Email)
	return nil
}

func (s *Shell) cmdOrders(ctx context.Context, _ []string) error {
	s.app.Nav.Navigate(nav.RouteOrders)
	orders, err := s.app.OrderHistory(ctx)
	if err != nil {
		if errors.Is(err, app.ErrSignedOut) {
			return err
		}
		s.logger.Warn("list orders failed", zap.Error(err))
		return errors.New("orders could not be loaded, please try again")
	}
	s.renderOrders(orders)
	return nil
}

// cmdRecommend runs the analysis in the background; the result is printed
// when it arrives unless the panel has moved on.
func (s *Shell) cmdRecommend(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	p, token, err := s.app.OpenRecommendation(id)
	if err != nil {
		return err
	}

	s.out.printf("Analyzing %s...\n", p.Name)
	s.background(func() {
		if v, applied := s.app.AwaitRecommendation(ctx, token); applied {
			s.renderPanel(v)
		}
	})
	return nil
}

func (s *Shell) cmdClose(context.Context, []string) error {
	s.app.Panel.Close()
	return nil
}

func (s *Shell) cmdAIStatus(ctx context.Context, _ []string) error {
	st, err := s.app.AIStatus(ctx)
	if err != nil {
		s.logger.Warn("ai health failed", zap.Error(err))
		return errors.New("AI service status unavailable")
	}
	s.out.printf("AI configured: %t (%s)\n", st.Configured, st.Status)
	return nil
}

func (s *Shell) cmdStatus(ctx context.Context, _ []string) error {
	for _, r := range s.app.Health(ctx) {
		state := "ok"
		if !r.OK {
			state = "down"
		}
		detail := ""
		if r.StatusCode != 0 {
			detail = fmt.Sprintf(" (%d)", r.StatusCode)
		}
		if r.Error != "" {
			detail = " (" + r.Error + ")"
		}
		s.out.printf("%-18s %s%s\n", r.Name, state, detail)
	}
	return nil
}

func (s *Shell) cmdTheme(context.Context, []string) error {
	on, err := s.app.ToggleTheme()
	if err != nil {
		return fmt.Errorf("theme could not be saved: %w", err)
	}
	theme := "light"
	if on {
		theme = "dark"
	}
	s.out.printf("Theme: %s\n", theme)
	return nil
}

func (s *Shell) cmdHelp(context.Context, []string) error {
	for _, name := range s.order {
		c := s.commands[name]
		s.out.printf("  %-26s %s\n", c.usage, c.help)
	}
	return nil
}
