package main // Entry point package

import (
    "context"
    "log"
    "time"

    "github.com/joho/godotenv"    // loads .env files in development
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/restaurant-table-reservation/internal/booking"
    "github.com/iliyamo/restaurant-table-reservation/internal/config"
    "github.com/iliyamo/restaurant-table-reservation/internal/database"
    "github.com/iliyamo/restaurant-table-reservation/internal/handler"
    appmw "github.com/iliyamo/restaurant-table-reservation/internal/middleware"
    "github.com/iliyamo/restaurant-table-reservation/internal/notify"
    "github.com/iliyamo/restaurant-table-reservation/internal/queue"
    "github.com/iliyamo/restaurant-table-reservation/internal/repository"
    "github.com/iliyamo/restaurant-table-reservation/internal/router"
    "github.com/iliyamo/restaurant-table-reservation/internal/scheduler"
    queue_publisher "github.com/iliyamo/restaurant-table-reservation/internal/service"
)

func main() {
    _ = godotenv.Load() // .env is optional; real env vars win

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    // Repositories
    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    restaurants := repository.NewRestaurantRepo(db)
    tables := repository.NewTableRepo(db)
    reservations := repository.NewReservationRepo(db)

    // Booking service: restaurants+tables form the directory the
    // invariant checker reads, the reservation repo is both store and
    // conflict finder, and mutations are published to RabbitMQ.
    dir := booking.DirectoryFuncs{
        Restaurants: restaurants.GetRestaurant,
        Tables:      tables.GetTable,
    }
    clock := booking.SystemClock{}
    // Email sender: SMTP when configured, log otherwise.
    var sender notify.Sender = notify.LogSender{}
    if cfg.SMTPAddr != "" && cfg.SMTPFrom != "" {
        sender = &notify.SMTPSender{Addr: cfg.SMTPAddr, From: cfg.SMTPFrom}
    }

    events := func(ctx context.Context, ev queue.ReservationEvent) {
        _ = queue_publisher.PublishReservationEvent(ctx, ev)
        if ev.Type == queue.EventReservationCreated {
            go sendConfirmation(users, restaurants, reservations, sender, ev)
        }
    }
    svc := booking.NewService(dir, reservations, clock, events)

    // Daily maintenance jobs: day-before reminders and the no-show sweep.
    jobs := &booking.Jobs{
        Store:  reservations,
        Dir:    dir,
        Users:  users,
        Sender: sender,
        Clock:  clock,
    }
    sched := scheduler.New(clock)
    sched.Add(scheduler.Job{
        Name:   "reservation-reminders",
        Hour:   cfg.ReminderHour,
        Minute: cfg.ReminderMinute,
        Run: func(ctx context.Context) {
            for _, o := range jobs.RunReminders(ctx) {
                log.Printf("reminder: reservation %d: %s", o.ReservationID, o.Result)
            }
        },
    })
    sched.Add(scheduler.Job{
        Name:   "no-show-sweep",
        Hour:   cfg.NoShowHour,
        Minute: cfg.NoShowMinute,
        Run: func(ctx context.Context) {
            updated := jobs.RunNoShowSweep(ctx)
            log.Printf("no-show sweep: marked %d reservations", len(updated))
        },
    })
    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()
    sched.Start(ctx)

    // Background consumer that appends reservation events to the audit log.
    go func() {
        if err := queue.StartReservationConsumer(); err != nil {
            log.Printf("reservation consumer stopped: %v", err)
        }
    }()

    e := echo.New()

    // Redis-backed rate limiting and response caching degrade to no-ops
    // when Redis is unreachable.
    if rdb := config.NewRedisClient(); rdb != nil {
        e.Use(appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
        e.Use(appmw.NewRedisCache(config.LoadCacheConfig(), rdb))
    } else {
        log.Println("redis unavailable; rate limiting and caching disabled")
    }

    // Handlers
    auth := handler.NewAuthHandler(cfg, users, tokens)
    owner := handler.NewOwnerHandler(restaurants, tables)
    public := handler.NewPublicHandler(restaurants, tables, svc.Checker())
    guest := handler.NewReservationHandler(svc, reservations)
    ownerRes := handler.NewOwnerReservationHandler(svc, reservations, restaurants)

    router.RegisterRoutes(e)
    router.RegisterAuth(e, auth, cfg.JWTSecret)
    router.RegisterPublic(e, public)
    router.RegisterGuest(e, guest, cfg.JWTSecret)
    router.RegisterOwner(e, owner, ownerRes, cfg.JWTSecret)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}

// sendConfirmation emails the guest right after a booking is accepted
// and records the flag so the row reflects what was delivered.  Runs
// off the request path; failures are logged and left for support.
func sendConfirmation(users *repository.UserRepo, restaurants *repository.RestaurantRepo, reservations *repository.ReservationRepo, sender notify.Sender, ev queue.ReservationEvent) {
    ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
    defer cancel()

    user, err := users.GetByID(ctx, ev.UserID)
    if err != nil {
        log.Printf("confirmation: reservation %d: user lookup: %v", ev.ReservationID, err)
        return
    }
    rest, err := restaurants.GetByID(ctx, ev.RestaurantID)
    if err != nil {
        log.Printf("confirmation: reservation %d: restaurant lookup: %v", ev.ReservationID, err)
        return
    }
    date, err := time.Parse("2006-01-02", ev.Date)
    if err != nil {
        log.Printf("confirmation: reservation %d: bad date %q", ev.ReservationID, ev.Date)
        return
    }
    guestName := user.FirstName
    if guestName == "" {
        guestName = user.Email
    }
    if err := sender.SendConfirmation(ctx, notify.Confirmation{
        To:             user.Email,
        GuestName:      guestName,
        RestaurantName: rest.Name,
        Date:           date,
        TimeSlot:       ev.TimeSlot,
        GuestsCount:    ev.GuestsCount,
    }); err != nil {
        log.Printf("confirmation: reservation %d: send: %v", ev.ReservationID, err)
        return
    }
    if err := reservations.MarkConfirmationSent(ctx, ev.ReservationID); err != nil {
        log.Printf("confirmation: reservation %d: mark sent: %v", ev.ReservationID, err)
    }
}
