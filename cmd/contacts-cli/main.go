package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"contacts-crm/internal/config"
	"contacts-crm/internal/geo"
	"contacts-crm/internal/groups"
	"contacts-crm/internal/handler"
	"contacts-crm/internal/models"
	"contacts-crm/internal/notify"
	"contacts-crm/internal/onboarding"
	"contacts-crm/internal/search"
	"contacts-crm/internal/storage"
	"contacts-crm/internal/whatsapp"
)

func main() {
	fmt.Println("📇 Contacts CRM")
	fmt.Println("===============")

	cfg := config.LoadConfig()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.DatabasePath, log)
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	places := geo.NewGooglePlaces(cfg.PlacesBaseURL, cfg.PlacesAPIKey, cfg.PlacesTimeout, log)
	finder := groups.NewFinder(store, places, log)
	engine := search.NewEngine(store, log)

	var senders notify.Multi
	if cfg.MailEnabled() {
		senders = append(senders, notify.NewEmail(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom, log))
	}
	if cfg.WhatsAppEnabled {
		whatsappService, err := whatsapp.NewService(ctx, &whatsapp.Config{
			DataDir:            cfg.WhatsAppDataDir,
			DefaultCountryCode: cfg.DefaultCountryCode,
		}, log)
		if err != nil {
			fmt.Printf("Error initializing WhatsApp service: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Connecting to WhatsApp...")
		if err := whatsappService.Connect(ctx); err != nil {
			fmt.Printf("Error connecting to WhatsApp: %v\n", err)
			os.Exit(1)
		}
		defer whatsappService.Disconnect()
		fmt.Println("✅ Connected to WhatsApp!")
		senders = append(senders, whatsappService)
	}
	if len(senders) == 0 {
		senders = append(senders, notify.NewLog(log))
	}

	workflow := onboarding.NewWorkflow(store, places, finder, senders, log)
	contacts := handler.NewContacts(store, workflow, engine, finder, &handler.Config{
		SearchDefaultLimit: cfg.SearchDefaultLimit,
	}, log)

	go startCLI(ctx, stop, contacts)

	<-ctx.Done()
	fmt.Println("\n\nShutting down...")
	fmt.Println("Goodbye! 👋")
}

func startCLI(ctx context.Context, stop context.CancelFunc, contacts *handler.Contacts) {
	scanner := bufio.NewScanner(os.Stdin)
	defer stop()

	for {
		fmt.Println("\nCommands:")
		fmt.Println("  1. Add person")
		fmt.Println("  2. Search contacts")
		fmt.Println("  3. View contact")
		fmt.Println("  4. Find closest cell group")
		fmt.Println("  5. Delete contact")
		fmt.Println("  6. Exit")
		fmt.Print("\nEnter command (1-6): ")

		if !scanner.Scan() {
			return
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			addPerson(ctx, scanner, contacts)
		case "2":
			searchContacts(ctx, scanner, contacts)
		case "3":
			viewContact(ctx, scanner, contacts)
		case "4":
			closestGroup(ctx, scanner, contacts)
		case "5":
			deleteContact(ctx, scanner, contacts)
		case "6":
			fmt.Println("Exiting...")
			return
		default:
			fmt.Println("Invalid command. Please try again.")
		}
	}
}

// prompt prints label and returns the trimmed answer
func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

func promptID(scanner *bufio.Scanner, label string) (int64, bool) {
	id, err := strconv.ParseInt(prompt(scanner, label), 10, 64)
	if err != nil || id <= 0 {
		fmt.Println("Invalid id.")
		return 0, false
	}
	return id, true
}

// parseIDs reads a comma separated list of ids, skipping anything that is not one
func parseIDs(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		if id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64); err == nil && id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

func isYes(answer string) bool {
	answer = strings.ToLower(answer)
	return answer == "yes" || answer == "y"
}

func addPerson(ctx context.Context, scanner *bufio.Scanner, contacts *handler.Contacts) {
	req := models.CreatePersonRequest{
		FirstName:  prompt(scanner, "First name: "),
		MiddleName: prompt(scanner, "Middle name: "),
		LastName:   prompt(scanner, "Last name: "),
		Phone:      prompt(scanner, "Phone: "),
		Email:      prompt(scanner, "Email: "),
	}

	if dob := prompt(scanner, "Date of birth (YYYY-MM-DD, optional): "); dob != "" {
		t, err := time.Parse("2006-01-02", dob)
		if err != nil {
			fmt.Println("Invalid date, skipping.")
		} else {
			req.DateOfBirth = &t
		}
	}

	if description := prompt(scanner, "Residence (optional): "); description != "" {
		req.Residence = &models.Residence{
			Description: description,
			PlaceID:     prompt(scanner, "Residence place id (optional): "),
		}
	}

	if raw := prompt(scanner, "Church location id (optional): "); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			fmt.Println("Invalid id, skipping.")
		} else if location, err := contacts.Group(ctx, id); err != nil {
			fmt.Printf("❌ %v\n", err)
			return
		} else {
			fmt.Printf("Church location: %s\n", location.Name)
			req.ChurchLocationID = &id
		}
	}

	req.InCell = isYes(prompt(scanner, "Already in a cell group? (yes/no): "))
	if req.InCell {
		if req.ChurchLocationID != nil {
			listCellGroups(ctx, contacts, *req.ChurchLocationID)
		}
		req.CellGroup = models.ParseCellGroupChoice(prompt(scanner, "Cell group id, or a name for a new one: "))
	} else {
		req.JoinCell = isYes(prompt(scanner, "Would like to join a cell group? (yes/no): "))
	}

	contact, err := contacts.AddPerson(ctx, req)
	if err != nil {
		fmt.Printf("❌ Error adding person: %v\n", err)
		return
	}
	fmt.Printf("✅ Added %s (id %d)\n", contact.DisplayName(), contact.ID)
	for _, r := range contact.GroupMembershipRequests {
		fmt.Printf("   Requested to join group %d (%.2f km away)\n", r.GroupID, r.DistanceKm)
	}
}

func listCellGroups(ctx context.Context, contacts *handler.Contacts, locationID int64) {
	cells, err := contacts.CellGroups(ctx, locationID)
	if err != nil || len(cells) == 0 {
		return
	}
	fmt.Println("Cell groups:")
	for _, g := range cells {
		fmt.Printf("  %d. %s\n", g.ID, g.Name)
	}
}

func searchContacts(ctx context.Context, scanner *bufio.Scanner, contacts *handler.Contacts) {
	req := models.SearchRequest{
		Query:           prompt(scanner, "Name contains: "),
		Phone:           prompt(scanner, "Phone contains: "),
		Email:           prompt(scanner, "Email contains: "),
		CellGroups:      parseIDs(prompt(scanner, "Cell group ids (comma separated): ")),
		ChurchLocations: parseIDs(prompt(scanner, "Church location ids (comma separated): ")),
	}
	if skip, err := strconv.Atoi(prompt(scanner, "Skip: ")); err == nil {
		req.Skip = skip
	}
	if limit, err := strconv.Atoi(prompt(scanner, "Limit: ")); err == nil {
		req.Limit = limit
	}

	results := contacts.Search(ctx, req)
	if len(results) == 0 {
		fmt.Println("\nNo contacts found.")
		return
	}

	fmt.Printf("\n📋 Contacts (%d shown):\n", len(results))
	fmt.Println(strings.Repeat("-", 60))
	for _, c := range results {
		fmt.Printf("Id: %d\n", c.ID)
		fmt.Printf("Name: %s\n", c.Name)
		if c.Phone != "" {
			fmt.Printf("Phone: %s\n", c.Phone)
		}
		if c.Email != "" {
			fmt.Printf("Email: %s\n", c.Email)
		}
		if c.CellGroup != nil {
			fmt.Printf("Cell group: %s\n", c.CellGroup.Name)
		}
		if c.Location != nil {
			fmt.Printf("Location: %s\n", c.Location.Name)
		}
		fmt.Println(strings.Repeat("-", 60))
	}
}

func viewContact(ctx context.Context, scanner *bufio.Scanner, contacts *handler.Contacts) {
	id, ok := promptID(scanner, "Contact id: ")
	if !ok {
		return
	}
	c, err := contacts.View(ctx, id)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}

	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Name: %s (%s)\n", c.DisplayName(), c.Category)
	for _, p := range c.Phones {
		fmt.Printf("Phone: %s [%s]\n", p.Value, p.Category)
	}
	for _, e := range c.Emails {
		fmt.Printf("Email: %s [%s]\n", e.Value, e.Category)
	}
	for _, a := range c.Addresses {
		fmt.Printf("Address: %s, %s, %s\n", a.FreeForm, a.District, a.Country)
	}
	for _, m := range c.GroupMemberships {
		if m.Group != nil {
			fmt.Printf("Member of: %s (%s)\n", m.Group.Name, m.Group.CategoryID)
		}
	}
	for _, r := range c.GroupMembershipRequests {
		fmt.Printf("Pending request: group %d, %.2f km, %s\n", r.GroupID, r.DistanceKm, r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Println(strings.Repeat("-", 60))
}

func closestGroup(ctx context.Context, scanner *bufio.Scanner, contacts *handler.Contacts) {
	placeID := prompt(scanner, "Place id: ")
	locationID, ok := promptID(scanner, "Church location id: ")
	if !ok {
		return
	}

	closest, found := contacts.ClosestGroup(ctx, placeID, locationID)
	if !found {
		fmt.Println("\nNo cell group found nearby.")
		return
	}
	fmt.Printf("\n📍 %s (id %d), %.2f km away\n", closest.GroupName, closest.GroupID, closest.DistanceKm())
}

func deleteContact(ctx context.Context, scanner *bufio.Scanner, contacts *handler.Contacts) {
	id, ok := promptID(scanner, "Contact id: ")
	if !ok {
		return
	}
	if !isYes(prompt(scanner, fmt.Sprintf("Delete contact %d? (yes/no): ", id))) {
		return
	}
	if err := contacts.Delete(ctx, id); err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}
	fmt.Println("✅ Contact deleted.")
}
