package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"emberly_server/routes"
	"emberly_server/services"
	"emberly_server/socket"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env for local runs; production relies on real env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize DynamoDB client and stores
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	interactionStore := &services.DynamoInteractionStore{Dynamo: dynamoService}
	matchStore := &services.DynamoMatchStore{Dynamo: dynamoService}
	conversationStore := &services.DynamoConversationStore{Dynamo: dynamoService}
	messageStore := &services.DynamoMessageStore{Dynamo: dynamoService}
	profileDirectory := &services.DynamoProfileDirectory{Dynamo: dynamoService}
	notificationSink := &services.DynamoNotificationSink{Dynamo: dynamoService}

	// Initialize Socket.IO server and realtime publisher
	socketServer := socket.NewSocketServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("Socket.IO server error: %v", err)
		}
	}()
	defer socketServer.Close()
	publisher := &socket.Publisher{Server: socketServer}

	// Initialize Services
	matchService := &services.MatchService{
		Store:        matchStore,
		Interactions: interactionStore,
		Profiles:     profileDirectory,
	}
	interactionService := &services.InteractionService{
		Interactions: interactionStore,
		MatchRecords: matchStore,
		Profiles:     profileDirectory,
		Matches:      matchService,
	}
	chatService := &services.ChatService{
		Conversations: conversationStore,
		Messages:      messageStore,
		Matches:       matchService,
		Profiles:      profileDirectory,
		Notifier:      notificationSink,
		Realtime:      publisher,
	}
	// Unfriend resets the pair's conversation through the chat service.
	matchService.Conversations = chatService

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Emberly")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterInteractionRoutes(r, interactionService)
	routes.RegisterMatchRoutes(r, matchService)
	routes.RegisterChatRoutes(r, chatService)

	// Socket.IO endpoint
	r.Handle("/socket.io/", socketServer)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
