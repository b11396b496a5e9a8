package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store wraps the MongoDB connection and all collection access. A nil
// or disconnected store degrades gracefully: reads return empty
// results and writes return ErrNotConnected, so the AI endpoints keep
// working without a database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var ErrNotConnected = fmt.Errorf("mongodb not connected")

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, uri, dbName string) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(connectCtx); err != nil {
		log.Printf("Warning: could not create indexes: %v", err)
	}

	log.Println("Connected to MongoDB successfully")
	return s, nil
}

// Close disconnects from MongoDB.
func (s *Store) Close() {
	if s == nil || s.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		log.Printf("Error closing MongoDB connection: %v", err)
		return
	}
	log.Println("MongoDB connection closed")
}

// Connected reports whether the store has a live database handle.
func (s *Store) Connected() bool {
	return s != nil && s.db != nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	users := s.db.Collection("users")
	if _, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "type", Value: 1}}},
	}); err != nil {
		return err
	}

	orders := s.db.Collection("orders")
	if _, err := orders.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}); err != nil {
		return err
	}

	consultations := s.db.Collection("consultations")
	if _, err := consultations.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "orderId", Value: 1}}},
	}); err != nil {
		return err
	}

	prescriptions := s.db.Collection("prescriptions")
	if _, err := prescriptions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "uploadDate", Value: -1}}},
	}); err != nil {
		return err
	}

	notifications := s.db.Collection("notifications")
	_, err := notifications.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "read", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	return err
}

// ==================== USERS ====================

// User covers patients, doctors, and admins in one collection. Doctor
// registration fields are empty for patients. Password never leaves
// the server.
type User struct {
	MongoID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID                  string             `bson:"id,omitempty" json:"id,omitempty"`
	Name                string             `bson:"name" json:"name"`
	Email               string             `bson:"email" json:"email"`
	Password            string             `bson:"password" json:"-"`
	Type                string             `bson:"type" json:"type"`
	Phone               string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Specialization      string             `bson:"specialization,omitempty" json:"specialization,omitempty"`
	LicenseNumber       string             `bson:"licenseNumber,omitempty" json:"licenseNumber,omitempty"`
	HospitalAffiliation string             `bson:"hospitalAffiliation,omitempty" json:"hospitalAffiliation,omitempty"`
	YearsOfExperience   int                `bson:"yearsOfExperience,omitempty" json:"yearsOfExperience,omitempty"`
	LicenseCertificate  string             `bson:"licenseCertificate,omitempty" json:"licenseCertificate,omitempty"`
	LicenseFileName     string             `bson:"licenseFileName,omitempty" json:"licenseFileName,omitempty"`
	RegistrationStatus  string             `bson:"registrationStatus,omitempty" json:"registrationStatus,omitempty"`
	SubmittedAt         string             `bson:"submittedAt,omitempty" json:"submittedAt,omitempty"`
	ReviewedAt          *string            `bson:"reviewedAt" json:"reviewedAt,omitempty"`
	ReviewNotes         string             `bson:"reviewNotes,omitempty" json:"reviewNotes,omitempty"`
	RegisteredAt        string             `bson:"registeredAt,omitempty" json:"registeredAt,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt,omitempty" json:"-"`
	UpdatedAt           time.Time          `bson:"updatedAt,omitempty" json:"-"`
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	if !s.Connected() {
		return nil, nil
	}
	var user User
	err := s.db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID resolves either a Mongo ObjectID hex string or the
// application-level "id" field.
func (s *Store) GetUserByID(ctx context.Context, userID string) (*User, error) {
	if !s.Connected() {
		return nil, nil
	}

	filter := bson.M{"id": userID}
	if oid, err := primitive.ObjectIDFromHex(userID); err == nil {
		filter = bson.M{"_id": oid}
	}

	var user User
	err := s.db.Collection("users").FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, user *User) (string, error) {
	if !s.Connected() {
		return "", ErrNotConnected
	}
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = time.Now().UTC()

	res, err := s.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		return "", err
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

func (s *Store) CountUsersByType(ctx context.Context, userType string) (int64, error) {
	if !s.Connected() {
		return 0, nil
	}
	return s.db.Collection("users").CountDocuments(ctx, bson.M{"type": userType})
}

// ListDoctors returns every doctor account, registration fields
// included, ordered as stored.
func (s *Store) ListDoctors(ctx context.Context) ([]User, error) {
	if !s.Connected() {
		return []User{}, nil
	}
	cursor, err := s.db.Collection("users").Find(ctx, bson.M{"type": "doctor"})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var doctors []User
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

// SetRegistrationStatus records an admin review decision on a doctor.
func (s *Store) SetRegistrationStatus(ctx context.Context, doctorID primitive.ObjectID, status, reviewNotes string) (bool, error) {
	if !s.Connected() {
		return false, ErrNotConnected
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": doctorID},
		bson.M{"$set": bson.M{
			"registrationStatus": status,
			"reviewedAt":         now,
			"reviewNotes":        reviewNotes,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// ==================== ORDERS ====================

// OrderItem is a line item as submitted by the client.
type OrderItem struct {
	ID       interface{} `bson:"id,omitempty" json:"id,omitempty"`
	Name     string      `bson:"name,omitempty" json:"name,omitempty"`
	Price    float64     `bson:"price,omitempty" json:"price,omitempty"`
	Quantity int         `bson:"quantity,omitempty" json:"quantity,omitempty"`
}

type Order struct {
	MongoID         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ID              string             `bson:"id" json:"id"`
	UserID          string             `bson:"userId" json:"userId"`
	Medicines       []OrderItem        `bson:"medicines" json:"medicines"`
	Shop            interface{}        `bson:"shop,omitempty" json:"shop,omitempty"`
	Address         string             `bson:"address,omitempty" json:"address,omitempty"`
	Phone           string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Total           float64            `bson:"total" json:"total"`
	Status          string             `bson:"status" json:"status"`
	DoctorConsulted bool               `bson:"doctorConsulted" json:"doctorConsulted"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (s *Store) CreateOrder(ctx context.Context, order *Order) error {
	if !s.Connected() {
		return ErrNotConnected
	}
	order.CreatedAt = time.Now().UTC()
	order.UpdatedAt = time.Now().UTC()

	res, err := s.db.Collection("orders").InsertOne(ctx, order)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.MongoID = oid
	}
	return nil
}

func (s *Store) CountOrders(ctx context.Context) (int64, error) {
	if !s.Connected() {
		return 0, nil
	}
	return s.db.Collection("orders").CountDocuments(ctx, bson.M{})
}

func (s *Store) OrdersByUser(ctx context.Context, userID string, limit int64) ([]Order, error) {
	if !s.Connected() {
		return []Order{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := s.db.Collection("orders").Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ==================== CONSULTATIONS ====================

type Consultation struct {
	MongoID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ID                 int64              `bson:"id" json:"id"`
	OrderID            string             `bson:"orderId" json:"orderId"`
	UserID             string             `bson:"userId" json:"userId"`
	DoctorID           string             `bson:"doctorId,omitempty" json:"doctorId,omitempty"`
	Status             string             `bson:"status" json:"status"`
	Symptoms           string             `bson:"symptoms" json:"symptoms"`
	Diagnosis          string             `bson:"diagnosis,omitempty" json:"diagnosis,omitempty"`
	Medicines          []string           `bson:"medicines,omitempty" json:"medicines,omitempty"`
	DosageInstructions string             `bson:"dosageInstructions,omitempty" json:"dosageInstructions,omitempty"`
	Notes              string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ConsultationUpdate carries the fields a doctor may set when closing
// a consultation. Nil pointers are left untouched in the document.
type ConsultationUpdate struct {
	Status             *string  `json:"status"`
	DoctorID           *string  `json:"doctorId"`
	Diagnosis          *string  `json:"diagnosis"`
	Medicines          []string `json:"medicines"`
	DosageInstructions *string  `json:"dosageInstructions"`
	Notes              *string  `json:"notes"`
}

func (s *Store) CreateConsultation(ctx context.Context, consultation *Consultation) error {
	if !s.Connected() {
		return ErrNotConnected
	}
	consultation.CreatedAt = time.Now().UTC()
	consultation.UpdatedAt = time.Now().UTC()

	res, err := s.db.Collection("consultations").InsertOne(ctx, consultation)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		consultation.MongoID = oid
	}
	return nil
}

func (s *Store) CountConsultations(ctx context.Context) (int64, error) {
	if !s.Connected() {
		return 0, nil
	}
	return s.db.Collection("consultations").CountDocuments(ctx, bson.M{})
}

func (s *Store) ConsultationsByUser(ctx context.Context, userID string, limit int64) ([]Consultation, error) {
	if !s.Connected() {
		return []Consultation{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := s.db.Collection("consultations").Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	consultations := []Consultation{}
	if err := cursor.All(ctx, &consultations); err != nil {
		return nil, err
	}
	return consultations, nil
}

// PendingConsultations returns the doctor work queue, oldest first.
func (s *Store) PendingConsultations(ctx context.Context, limit int64) ([]Consultation, error) {
	if !s.Connected() {
		return []Consultation{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}).SetLimit(limit)
	cursor, err := s.db.Collection("consultations").Find(ctx, bson.M{"status": "pending"}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	consultations := []Consultation{}
	if err := cursor.All(ctx, &consultations); err != nil {
		return nil, err
	}
	return consultations, nil
}

// UpdateConsultation applies a doctor's review and returns the
// updated document, or nil when no consultation has that ID.
func (s *Store) UpdateConsultation(ctx context.Context, id int64, update *ConsultationUpdate) (*Consultation, error) {
	if !s.Connected() {
		return nil, ErrNotConnected
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.DoctorID != nil {
		set["doctorId"] = *update.DoctorID
	}
	if update.Diagnosis != nil {
		set["diagnosis"] = *update.Diagnosis
	}
	if update.Medicines != nil {
		set["medicines"] = update.Medicines
	}
	if update.DosageInstructions != nil {
		set["dosageInstructions"] = *update.DosageInstructions
	}
	if update.Notes != nil {
		set["notes"] = *update.Notes
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var consultation Consultation
	err := s.db.Collection("consultations").FindOneAndUpdate(ctx,
		bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&consultation)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &consultation, nil
}

// ==================== PRESCRIPTIONS ====================

type Prescription struct {
	MongoID    primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ID         int64              `bson:"id" json:"id"`
	UserID     string             `bson:"userId" json:"userId"`
	Doctor     string             `bson:"doctor,omitempty" json:"doctor,omitempty"`
	Medicines  []string           `bson:"medicines" json:"medicines"`
	Status     string             `bson:"status" json:"status"`
	UploadDate time.Time          `bson:"uploadDate" json:"uploadDate"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

func (s *Store) CreatePrescription(ctx context.Context, prescription *Prescription) error {
	if !s.Connected() {
		return ErrNotConnected
	}
	prescription.UploadDate = time.Now().UTC()
	prescription.CreatedAt = time.Now().UTC()

	res, err := s.db.Collection("prescriptions").InsertOne(ctx, prescription)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		prescription.MongoID = oid
	}
	return nil
}

func (s *Store) CountPrescriptions(ctx context.Context) (int64, error) {
	if !s.Connected() {
		return 0, nil
	}
	return s.db.Collection("prescriptions").CountDocuments(ctx, bson.M{})
}

func (s *Store) PrescriptionsByUser(ctx context.Context, userID string, limit int64) ([]Prescription, error) {
	if !s.Connected() {
		return []Prescription{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "uploadDate", Value: -1}}).SetLimit(limit)
	cursor, err := s.db.Collection("prescriptions").Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	prescriptions := []Prescription{}
	if err := cursor.All(ctx, &prescriptions); err != nil {
		return nil, err
	}
	return prescriptions, nil
}

// ==================== NOTIFICATIONS ====================

type Notification struct {
	MongoID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UserID         string             `bson:"userId" json:"userId"`
	Type           string             `bson:"type" json:"type"`
	Title          string             `bson:"title" json:"title"`
	Message        string             `bson:"message" json:"message"`
	ConsultationID int64              `bson:"consultationId,omitempty" json:"consultationId,omitempty"`
	OrderID        string             `bson:"orderId,omitempty" json:"orderId,omitempty"`
	Read           bool               `bson:"read" json:"read"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	ReadAt         *time.Time         `bson:"readAt,omitempty" json:"readAt,omitempty"`
}

func (s *Store) CreateNotification(ctx context.Context, notification *Notification) error {
	if !s.Connected() {
		return ErrNotConnected
	}
	notification.CreatedAt = time.Now().UTC()
	notification.Read = false

	res, err := s.db.Collection("notifications").InsertOne(ctx, notification)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		notification.MongoID = oid
	}
	return nil
}

func (s *Store) NotificationsForUser(ctx context.Context, userID string, limit int64, unreadOnly bool) ([]Notification, error) {
	if !s.Connected() {
		return []Notification{}, nil
	}

	filter := bson.M{"userId": userID}
	if unreadOnly {
		filter["read"] = false
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := s.db.Collection("notifications").Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := []Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (s *Store) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if !s.Connected() {
		return 0, nil
	}
	return s.db.Collection("notifications").CountDocuments(ctx, bson.M{"userId": userID, "read": false})
}

// MarkNotificationRead marks one notification read and returns it, or
// nil when the ID is unknown.
func (s *Store) MarkNotificationRead(ctx context.Context, notificationID string) (*Notification, error) {
	if !s.Connected() {
		return nil, ErrNotConnected
	}

	oid, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		return nil, nil
	}

	now := time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var notification Notification
	err = s.db.Collection("notifications").FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"read": true, "readAt": now}},
		opts).Decode(&notification)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	if !s.Connected() {
		return ErrNotConnected
	}
	now := time.Now().UTC()
	_, err := s.db.Collection("notifications").UpdateMany(ctx,
		bson.M{"userId": userID, "read": false},
		bson.M{"$set": bson.M{"read": true, "readAt": now}})
	return err
}

// NotifyDoctors fans one notification out to every doctor account and
// returns the doctors so callers can follow up over other channels.
func (s *Store) NotifyDoctors(ctx context.Context, template Notification) ([]User, error) {
	if !s.Connected() {
		return []User{}, nil
	}

	doctors, err := s.ListDoctors(ctx)
	if err != nil {
		return nil, err
	}

	for _, doctor := range doctors {
		n := template
		n.MongoID = primitive.NilObjectID
		n.UserID = doctor.ID
		if n.UserID == "" {
			n.UserID = doctor.Email
		}
		if err := s.CreateNotification(ctx, &n); err != nil {
			log.Printf("Failed to notify doctor %s: %v", doctor.Email, err)
		}
	}

	return doctors, nil
}

// ==================== DEMO DATA ====================

// InitializeDemoUsers seeds the demo accounts used by the frontend's
// quick-login buttons. Existing accounts are left alone.
func (s *Store) InitializeDemoUsers(ctx context.Context) {
	if !s.Connected() {
		return
	}

	demoUsers := []User{
		{ID: "1", Name: "John Doe", Email: "patient@demo.com", Password: "patient123", Type: "patient", Phone: "+91 98765 43210"},
		{ID: "2", Name: "Sarah Smith", Email: "sarah@demo.com", Password: "demo123", Type: "patient", Phone: "+91 98765 43211"},
		{ID: "1", Name: "Dr. Ramesh Kumar", Email: "doctor@demo.com", Password: "doctor123", Type: "doctor", Specialization: "General Physician", Phone: "+919876543220"},
		{ID: "2", Name: "Dr. Priya Sharma", Email: "drpriya@demo.com", Password: "demo123", Type: "doctor", Specialization: "Dermatologist", Phone: "+919876543221"},
	}

	for i := range demoUsers {
		existing, err := s.GetUserByEmail(ctx, demoUsers[i].Email)
		if err != nil || existing != nil {
			continue
		}
		if _, err := s.CreateUser(ctx, &demoUsers[i]); err != nil {
			log.Printf("Note: demo user %s may already exist", demoUsers[i].Email)
			continue
		}
		log.Printf("Created demo user: %s", demoUsers[i].Email)
	}
}
