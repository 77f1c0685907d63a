package sqlinline

const QInsertMessage = `--sql a93df43a-ce9f-40ae-b3a0-63149e60a115
insert into messages(id, applicant_id, channel, recipient, subject, body, properties, status, created_at, updated_at)
values (gen_random_uuid(), $1::uuid, $2::text, $3::text, $4::text, $5::text, coalesce($6::jsonb, '{}'::jsonb), 'queued', now(), now())
returning id;
`

const QListMessages = `--sql 140f3995-03f3-4b6e-9916-441e6fe1878f
select id, applicant_id, channel, recipient, subject, body, status, coalesce(last_error, ''), created_at, updated_at
from messages
where (nullif($1::text, '') is null or status = $1::text)
order by created_at desc
limit $2::int;
`

const QClaimQueuedMessage = `--sql 7cd7d95f-ed0a-482c-b78f-c46c57ab38b1
with next_message as (
  select id
  from messages
  where status = 'queued'
  order by created_at asc
  for update skip locked
  limit 1
)
update messages
set status = 'sending', updated_at = now()
where id in (select id from next_message)
returning id, applicant_id, channel, recipient, subject, body;
`

const QMarkMessageSent = `--sql 4e7da23c-496e-460d-af3a-d965efdbe1a7
update messages
set status = 'sent', last_error = null, updated_at = now()
where id = $1::uuid;
`

const QMarkMessageFailed = `--sql e27508fb-7a19-4539-877c-cdbedda3a836
update messages
set status = 'failed', last_error = $2::text, updated_at = now()
where id = $1::uuid;
`
