package repository

import "go.mongodb.org/mongo-driver/mongo"

// Store bundles the Mongo repositories of one database.
type Store struct {
	Users             *MongoUserRepository
	Organizations     *MongoOrganizationRepository
	Roles             *MongoRoleRepository
	Permissions       *MongoPermissionRepository
	Attendance        *MongoAttendanceRepository
	LeaveTypes        *MongoLeaveTypeRepository
	LeaveApplications *MongoLeaveApplicationRepository
	Payroll           *MongoPayrollRepository
	Documents         *MongoDocumentRepository
}

func NewStore(database *mongo.Database) *Store {
	return &Store{
		Users:             NewMongoUserRepository(database),
		Organizations:     NewMongoOrganizationRepository(database),
		Roles:             NewMongoRoleRepository(database),
		Permissions:       NewMongoPermissionRepository(database),
		Attendance:        NewMongoAttendanceRepository(database),
		LeaveTypes:        NewMongoLeaveTypeRepository(database),
		LeaveApplications: NewMongoLeaveApplicationRepository(database),
		Payroll:           NewMongoPayrollRepository(database),
		Documents:         NewMongoDocumentRepository(database),
	}
}
