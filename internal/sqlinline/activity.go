package sqlinline

const QInsertTrackingEvent = `--sql e04fd73a-fb67-4143-a99d-f5c6b3872943
insert into tracking_events(id, user_id, event_type, occurred_at, created_at)
values (gen_random_uuid(), $1::uuid, $2::text, $3::timestamptz, now())
returning id;
`

// Session reconstruction depends on this ordering: events grouped by user,
// ascending by occurrence within each user. Do not change the order by.
const QListTrackingEvents = `--sql ecd96ac0-3fa3-4150-84b7-faba4f3fbfb0
select e.user_id, e.event_type, e.occurred_at, u.name, u.email, u.role
from tracking_events e
join users u on u.id = e.user_id
where (nullif($1::text, '') is null or e.user_id = nullif($1::text, '')::uuid)
  and (nullif($2::text, '') is null or e.occurred_at >= nullif($2::text, '')::date)
  and (nullif($3::text, '') is null or e.occurred_at < nullif($3::text, '')::date + interval '1 day')
order by e.user_id asc, e.occurred_at asc;
`
